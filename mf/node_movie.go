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
	"go.uber.org/atomic"

	"github.com/gridmf/gridmf/base"
	"github.com/gridmf/gridmf/common/parallel"
	"github.com/gridmf/gridmf/graph"
)

// naiveRounds is the number of outer rounds of the unpartitioned schedulers.
const naiveRounds = 10

// ratedMovies lists the movies with at least one edge.
func ratedMovies(g *graph.Graph) []int32 {
	movies := make([]int32, 0, g.NumMovies())
	for m := int32(0); m < g.NumMovies(); m++ {
		if g.Degree(m) > 0 {
			movies = append(movies, m)
		}
	}
	return movies
}

// runNodeMovie processes whole movie rows in parallel without partitioning
// the user axis. Concurrent writes to user vectors are permitted and treated
// as a benign race.
func runNodeMovie(g *graph.Graph, schedule StepSchedule, config *FitConfig, hook roundHook) {
	movies := ratedMovies(g)
	for round := 0; round < naiveRounds; round++ {
		step := schedule.Step(round)
		hook(round, step)
		parallel.ForEach(movies, config.Jobs, func(_ int, m int32) {
			targets, ratings := g.Row(m)
			for i := range targets {
				gradientUpdate(g.Factors[m], g.Factors[targets[i]], ratings[i], step)
				g.Updates[m]++
			}
		})
	}
}

// runEdgeMovie interleaves movies at single-edge granularity: a movie task
// consumes the edge under its cursor and requeues itself until the row is
// exhausted, then resets the cursor. A movie is queued at most once, so the
// movie side stays single-writer. The movie order is shuffled between rounds.
func runEdgeMovie(g *graph.Graph, schedule StepSchedule, config *FitConfig, rng base.RandomGenerator, hook roundHook) {
	movies := ratedMovies(g)
	if len(movies) == 0 {
		return
	}
	for round := 0; round < naiveRounds; round++ {
		step := schedule.Step(round)
		hook(round, step)
		if round != 0 {
			rng.Shuffle(len(movies), func(i, j int) {
				movies[i], movies[j] = movies[j], movies[i]
			})
		}
		queue := make(chan int32, len(movies))
		pending := atomic.NewInt64(int64(len(movies)))
		for _, m := range movies {
			queue <- m
		}
		parallel.Static(config.Jobs, func(workerId int) {
			for m := range queue {
				targets, ratings := g.Row(m)
				cursor := g.Cursors[m]
				gradientUpdate(g.Factors[m], g.Factors[targets[cursor]], ratings[cursor], step)
				g.Updates[m]++
				cursor++
				if cursor == int32(len(targets)) {
					g.Cursors[m] = 0
					if pending.Dec() == 0 {
						close(queue)
					}
				} else {
					g.Cursors[m] = cursor
					queue <- m
				}
			}
		})
	}
}
