// Copyright 2024 gridmf Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mf

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const LabelAlgo = "algo"

var (
	FitSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gridmf",
		Subsystem: "mf",
		Name:      "fit_seconds",
	}, []string{LabelAlgo})
	FitRMS = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gridmf",
		Subsystem: "mf",
		Name:      "fit_rms",
	}, []string{LabelAlgo})
	GradientUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridmf",
		Subsystem: "mf",
		Name:      "gradient_updates_total",
	}, []string{LabelAlgo})
	SliceConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gridmf",
		Subsystem: "mf",
		Name:      "slice_conflicts_total",
	})
)
