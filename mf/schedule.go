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

	"github.com/juju/errors"
)

// Learning function names.
const (
	LearnIntel  = "Intel"
	LearnPurdue = "Purdue"
	LearnBottou = "Bottou"
	LearnInv    = "Inv"
)

// LearnNames lists the supported learning functions.
var LearnNames = []string{LearnIntel, LearnPurdue, LearnBottou, LearnInv}

// StepSchedule yields the gradient step size for a round. Implementations are
// pure functions of the round number.
type StepSchedule interface {
	Step(round int) float64
}

// NewStepSchedule creates a step schedule by name.
func NewStepSchedule(name string) (StepSchedule, error) {
	switch name {
	case LearnIntel:
		return intelSchedule{}, nil
	case LearnPurdue:
		return purdueSchedule{}, nil
	case LearnBottou:
		return bottouSchedule{}, nil
	case LearnInv:
		return invSchedule{}, nil
	}
	return nil, errors.NotFoundf("learning function %q", name)
}

type intelSchedule struct{}

func (intelSchedule) Step(round int) float64 {
	return LearningRate * math.Pow(DecayRate, float64(round))
}

type purdueSchedule struct{}

func (purdueSchedule) Step(round int) float64 {
	return LearningRate * 1.5 / (1.0 + DecayRate*math.Pow(float64(round+1), 1.5))
}

type bottouSchedule struct{}

func (bottouSchedule) Step(round int) float64 {
	return BottouInit / (1 + BottouInit*Lambda*float64(round))
}

type invSchedule struct{}

func (invSchedule) Step(round int) float64 {
	return 1 / float64(round+1)
}
