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
	"math"

	"go.uber.org/zap"

	"github.com/gridmf/gridmf/base/log"
	"github.com/gridmf/gridmf/common/parallel"
	"github.com/gridmf/gridmf/graph"
)

// Evaluate computes the sum of squared prediction errors over every edge and
// the root mean square error. Predictions are clamped before subtraction.
// Per-worker partial sums are added in worker order, so the worker count
// changes the result only through floating-point summation order.
func Evaluate(g *graph.Graph, nJobs int) (sum, rms float64) {
	if nJobs < 1 {
		nJobs = 1
	}
	partials := make([]float64, nJobs)
	denormals := make([]int64, nJobs)
	parallel.Static(nJobs, func(workerId int) {
		lo := g.NumMovies() / int32(nJobs) * int32(workerId)
		hi := g.NumMovies() / int32(nJobs) * int32(workerId+1)
		if workerId == nJobs-1 {
			hi = g.NumMovies()
		}
		for m := lo; m < hi; m++ {
			targets, ratings := g.Row(m)
			for i, t := range targets {
				pred := Predict(g.Factors[m], g.Factors[t])
				if !isNormal(pred) {
					denormals[workerId]++
				}
				err := pred - float64(ratings[i])
				partials[workerId] += err * err
			}
		}
	})
	var denormalCount int64
	for i := 0; i < nJobs; i++ {
		sum += partials[i]
		denormalCount += denormals[i]
	}
	if denormalCount > 0 {
		log.Logger().Warn("denormal predictions", zap.Int64("count", denormalCount))
	}
	if g.NumRatings() == 0 {
		return 0, 0
	}
	rms = math.Sqrt(sum / float64(g.NumRatings()))
	return sum, rms
}

// isNormal reports whether x is a normal floating-point number: not zero,
// not subnormal, not infinite and not NaN.
func isNormal(x float64) bool {
	return x != 0 && !math.IsNaN(x) && !math.IsInf(x, 0) && math.Abs(x) >= math.SmallestNonzeroFloat64*(1<<52)
}
