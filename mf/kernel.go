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

// Package mf trains latent factor models over a bipartite rating graph with
// stochastic gradient descent. Six interchangeable schedulers decide which
// worker touches which edge when; the gradient arithmetic is shared.
package mf

import (
	"github.com/gridmf/gridmf/common/floats"
	"github.com/gridmf/gridmf/graph"
)

const (
	// LearningRate is the base step size of the decaying schedules.
	LearningRate = 0.001
	// DecayRate is the per-round decay factor.
	DecayRate = 0.9
	// Lambda is the regularization constant of the gradient update; the Bottou
	// schedule also uses it.
	Lambda = 0.001
	// BottouInit is the initial step of the Bottou schedule.
	BottouInit = 0.1
	// MaxMovieUpdates is the number of rounds every movie's adjacency list is
	// walked by the grid schedulers.
	MaxMovieUpdates = 5
	// Seed initializes factor vectors deterministically.
	Seed = 4562727
)

// Predict returns the clamped dot product of a movie and a user factor vector.
func Predict(movie, user []float64) float64 {
	return floats.Clamp(floats.Dot(movie, user), graph.MinValue, graph.MaxValue)
}

// gradientUpdate applies one SGD step to both endpoint vectors of an edge.
// Each dimension reads the pre-update value of the opposite vector, so the
// error term is computed once against the vectors as they were on entry.
func gradientUpdate(movie, user []float64, rating int32, step float64) {
	err := float64(rating) - floats.Dot(movie, user)
	for i := range movie {
		m, u := movie[i], user[i]
		movie[i] = m + step*(err*u-Lambda*m)
		user[i] = u + step*(err*m-Lambda*u)
	}
}
