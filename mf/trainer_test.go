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
	"context"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"

	"github.com/gridmf/gridmf/graph"
)

func buildTestGraph(t *testing.T, numMovies, numUsers int32, ratings []graph.Rating) *graph.Graph {
	g, err := graph.Build(numMovies, numUsers, ratings)
	assert.NoError(t, err)
	return g
}

// fullGraph connects every movie to every user with rating (m+u)%5+1.
func fullGraph(t *testing.T, numMovies, numUsers int32) *graph.Graph {
	var ratings []graph.Rating
	for m := int32(0); m < numMovies; m++ {
		for u := int32(0); u < numUsers; u++ {
			ratings = append(ratings, graph.Rating{Movie: m, User: u, Value: (m+u)%5 + 1})
		}
	}
	return buildTestGraph(t, numMovies, numUsers, ratings)
}

func TestDeterministicInit(t *testing.T) {
	a := fullGraph(t, 4, 4)
	b := fullGraph(t, 4, 4)
	ta, err := NewTrainer(AlgoBlock, LearnIntel)
	assert.NoError(t, err)
	tb, err := NewTrainer(AlgoBlock, LearnIntel)
	assert.NoError(t, err)
	ta.Init(a)
	tb.Init(b)
	assert.Equal(t, a.Factors, b.Factors)
	assert.NotEqual(t, a.Factors[0], a.Factors[1])
}

func TestNewTrainerUnknownAlgo(t *testing.T) {
	_, err := NewTrainer("annealing", LearnIntel)
	assert.True(t, errors.IsNotFound(err))
	_, err = NewTrainer(AlgoBlock, "Newton")
	assert.True(t, errors.IsNotFound(err))
}

// Each scheduler must touch every edge exactly once per round.
func TestCoverage(t *testing.T) {
	rounds := map[string]int32{
		AlgoNodeMovie:          naiveRounds,
		AlgoEdgeMovie:          naiveRounds,
		AlgoBlock:              MaxMovieUpdates,
		AlgoBlockAndSliceUsers: MaxMovieUpdates,
		AlgoBlockAndSliceBoth:  MaxMovieUpdates,
		AlgoSliceMarch:         MaxMovieUpdates,
	}
	for _, algo := range AlgoNames {
		t.Run(algo, func(t *testing.T) {
			g := fullGraph(t, 4, 4)
			trainer, err := NewTrainer(algo, LearnIntel)
			assert.NoError(t, err)
			config := NewFitConfig().SetJobs(2).
				SetUsersPerBlockSlice(2).SetMoviesPerBlockSlice(1)
			result, err := trainer.Fit(context.Background(), g, config)
			assert.NoError(t, err)
			var expected int64
			for m := int32(0); m < g.NumMovies(); m++ {
				assert.Equal(t, rounds[algo]*g.Degree(m), g.Updates[m])
				expected += int64(rounds[algo] * g.Degree(m))
			}
			assert.Equal(t, expected, result.Updates)
		})
	}
}

// Two workers on a full 2x2 graph must process the diagonal blocks first and
// the anti-diagonal blocks second, every round. The run is replayed
// sequentially in that order and must produce identical factors.
func TestBlockPairing(t *testing.T) {
	ratings := []graph.Rating{
		{Movie: 0, User: 0, Value: 1},
		{Movie: 0, User: 1, Value: 2},
		{Movie: 1, User: 0, Value: 3},
		{Movie: 1, User: 1, Value: 4},
	}
	g := buildTestGraph(t, 2, 2, ratings)
	trainer, err := NewTrainer(AlgoBlock, LearnIntel)
	assert.NoError(t, err)
	_, err = trainer.Fit(context.Background(), g, NewFitConfig().SetJobs(2))
	assert.NoError(t, err)

	want := buildTestGraph(t, 2, 2, ratings)
	replay, err := NewTrainer(AlgoBlock, LearnIntel)
	assert.NoError(t, err)
	replay.Init(want)
	schedule, err := NewStepSchedule(LearnIntel)
	assert.NoError(t, err)
	value := func(m, u int32) int32 {
		for _, r := range ratings {
			if r.Movie == m && r.User == u {
				return r.Value
			}
		}
		t.Fatal("missing rating")
		return 0
	}
	for round := 0; round < MaxMovieUpdates; round++ {
		step := schedule.Step(round)
		for _, pair := range [][2]int32{{0, 0}, {1, 1}, {0, 1}, {1, 0}} {
			m, u := pair[0], pair[1]
			gradientUpdate(want.Factors[m], want.Factors[want.UserNode(u)], value(m, u), step)
		}
	}
	assert.Equal(t, want.Factors, g.Factors)
}

func TestCursorRollover(t *testing.T) {
	// movie 0 rates every user, movie 1 rates none
	ratings := []graph.Rating{
		{Movie: 0, User: 0, Value: 1},
		{Movie: 0, User: 1, Value: 2},
		{Movie: 0, User: 2, Value: 3},
		{Movie: 0, User: 3, Value: 4},
	}
	g := buildTestGraph(t, 2, 4, ratings)
	config := NewFitConfig().SetJobs(2).SetUsersPerBlockSlice(4)
	p := newGridPartition(g, config)
	advanceCursors(g, p.items)
	assert.Equal(t, int32(0), g.Cursors[0])

	// sub-step 0: worker 0 owns users [0, 2)
	runBlock(g, p.items[0], 0.001, blockScan)
	runBlock(g, p.items[1], 0.001, blockScan)
	assert.Equal(t, int32(2), g.Cursors[0])
	p.rotate(0)

	// sub-step 1: worker 0 owns users [2, 4), the last column of the round
	runBlock(g, p.items[0], 0.001, blockScan)
	runBlock(g, p.items[1], 0.001, blockScan)
	assert.Equal(t, int32(0), g.Cursors[0])
	assert.Equal(t, int64(4), p.items[0].updates)
}

func TestRMSImproves(t *testing.T) {
	g := fullGraph(t, 8, 8)
	trainer, err := NewTrainer(AlgoBlockAndSliceBoth, LearnIntel)
	assert.NoError(t, err)
	trainer.Init(g)
	_, initial := Evaluate(g, 1)
	result, err := trainer.Fit(context.Background(), g, NewFitConfig().SetJobs(1))
	assert.NoError(t, err)
	assert.Less(t, result.RMS, initial)
}

func TestVerifyPerIter(t *testing.T) {
	g := fullGraph(t, 4, 4)
	trainer, err := NewTrainer(AlgoBlock, LearnIntel)
	assert.NoError(t, err)
	config := NewFitConfig().SetJobs(2).SetVerifyPerIter(true)
	_, err = trainer.Fit(context.Background(), g, config)
	assert.NoError(t, err)
}

func TestInvalidJobs(t *testing.T) {
	g := fullGraph(t, 4, 4)
	trainer, err := NewTrainer(AlgoBlock, LearnIntel)
	assert.NoError(t, err)
	_, err = trainer.Fit(context.Background(), g, NewFitConfig().SetJobs(0))
	assert.True(t, errors.IsNotValid(err))
}
