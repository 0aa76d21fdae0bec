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
	"time"

	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/gridmf/gridmf/base"
	"github.com/gridmf/gridmf/base/log"
	"github.com/gridmf/gridmf/base/progress"
	"github.com/gridmf/gridmf/common/parallel"
	"github.com/gridmf/gridmf/graph"
)

// roundHook fires at the start of every outer round with that round's step
// size.
type roundHook func(round int, step float64)

// Result reports a finished training run.
type Result struct {
	Sum     float64
	RMS     float64
	Updates int64
	Elapsed time.Duration
}

// Trainer runs SGD over a rating graph with a named scheduler variant and a
// named step schedule.
type Trainer struct {
	algo     string
	learn    string
	schedule StepSchedule
	rng      base.RandomGenerator
}

// NewTrainer creates a trainer. algo and learn must be members of AlgoNames
// and LearnNames.
func NewTrainer(algo, learn string) (*Trainer, error) {
	if !lo.Contains(AlgoNames, algo) {
		return nil, errors.NotFoundf("scheduler variant %q", algo)
	}
	schedule, err := NewStepSchedule(learn)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Trainer{
		algo:     algo,
		learn:    learn,
		schedule: schedule,
		rng:      base.NewRandomGenerator(Seed),
	}, nil
}

// Init fills every latent vector with uniform random values in (-1, 1) and
// zeroes update counts and edge cursors. The generator is reseeded, so two
// runs from the same trainer start identically.
func (t *Trainer) Init(g *graph.Graph) {
	t.rng = base.NewRandomGenerator(Seed)
	t.rng.FillUniform(g.Factors, -1, 1)
	g.ResetUpdates()
	g.ResetCursors()
}

// Fit trains the latent factors in place and evaluates the result.
func (t *Trainer) Fit(ctx context.Context, g *graph.Graph, config *FitConfig) (*Result, error) {
	config = config.LoadFitConfig()
	log.Logger().Info("fit mf",
		zap.String("algo", t.algo),
		zap.String("learn", t.learn),
		zap.Int("jobs", config.Jobs),
		zap.Int32("movies", g.NumMovies()),
		zap.Int32("users", g.NumUsers()),
		zap.Int("ratings", g.NumRatings()))
	if config.Jobs < 1 {
		return nil, errors.NotValidf("%d workers", config.Jobs)
	}
	t.Init(g)

	rounds := MaxMovieUpdates
	if t.algo == AlgoNodeMovie || t.algo == AlgoEdgeMovie {
		rounds = naiveRounds
	} else if t.algo == AlgoSliceMarch {
		rounds = 1
	}
	_, span := progress.Start(ctx, "Fit", rounds)
	hook := func(round int, step float64) {
		if round > 0 {
			span.Add(1)
		}
		if config.VerifyPerIter {
			sum, rms := Evaluate(g, config.Jobs)
			log.Logger().Info("round",
				zap.Int("round", round),
				zap.Float64("step", step),
				zap.Float64("sum", sum),
				zap.Float64("rms", rms))
		} else if config.Verbose > 0 && round%config.Verbose == 0 {
			log.Logger().Debug("round",
				zap.Int("round", round),
				zap.Float64("step", step))
		}
	}

	start := time.Now()
	var items []*workItem
	switch t.algo {
	case AlgoNodeMovie:
		runNodeMovie(g, t.schedule, config, hook)
	case AlgoEdgeMovie:
		runEdgeMovie(g, t.schedule, config, t.rng, hook)
	case AlgoBlock:
		items = runGrid(g, t.schedule, config, blockScan, hook)
	case AlgoBlockAndSliceUsers:
		items = runGrid(g, t.schedule, config, blockSliceUsersScan, hook)
	case AlgoBlockAndSliceBoth:
		items = runGrid(g, t.schedule, config, blockSliceBothScan, hook)
	case AlgoSliceMarch:
		items = runSliceMarch(g, t.schedule, config)
	}
	elapsed := time.Since(start)
	span.End()

	result := &Result{Elapsed: elapsed}
	for _, wi := range items {
		result.Updates += wi.updates
		SliceConflicts.Add(float64(wi.conflicts))
		log.Logger().Debug("worker tally",
			zap.Int("worker", wi.id),
			zap.Int64("updates", wi.updates),
			zap.Int64("conflicts", wi.conflicts),
			zap.Duration("elapsed", wi.elapsed))
	}
	if items == nil {
		result.Updates = countUpdates(g)
	}
	result.Sum, result.RMS = Evaluate(g, config.Jobs)
	FitSeconds.WithLabelValues(t.algo).Observe(elapsed.Seconds())
	FitRMS.WithLabelValues(t.algo).Set(result.RMS)
	GradientUpdates.WithLabelValues(t.algo).Add(float64(result.Updates))
	log.Logger().Info("fit mf complete",
		zap.Float64("sum", result.Sum),
		zap.Float64("rms", result.RMS),
		zap.Int64("updates", result.Updates),
		zap.Duration("elapsed", elapsed))
	return result, nil
}

// runGrid drives a W-by-W rotation: one static worker per movie band, a
// barrier after every column, W columns per round. The barrier is the only
// synchronization the block schedulers need.
func runGrid(g *graph.Graph, schedule StepSchedule, config *FitConfig, fn blockFn, hook roundHook) []*workItem {
	p := newGridPartition(g, config)
	advanceCursors(g, p.items)
	w := len(p.items)
	for round := 0; round < MaxMovieUpdates; round++ {
		step := schedule.Step(round)
		hook(round, step)
		for j := 0; j < w; j++ {
			parallel.Static(w, func(workerId int) {
				runBlock(g, p.items[workerId], step, fn)
			})
			p.rotate(j)
		}
	}
	return p.items
}

func countUpdates(g *graph.Graph) int64 {
	var total int64
	for _, u := range g.Updates {
		total += int64(u)
	}
	return total
}
