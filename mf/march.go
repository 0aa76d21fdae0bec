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
	"time"

	"go.uber.org/zap"

	"github.com/gridmf/gridmf/base/log"
	"github.com/gridmf/gridmf/common/lock"
	"github.com/gridmf/gridmf/common/parallel"
	"github.com/gridmf/gridmf/graph"
)

// runSliceMarch cuts the user axis into global slices gated by spinlocks.
// Workers march rightward through the slices at their own pace, so nothing
// joins them until they have each visited MaxMovieUpdates * numSlices slices.
// The step size is fixed for the whole run.
func runSliceMarch(g *graph.Graph, schedule StepSchedule, config *FitConfig) []*workItem {
	w := int32(config.Jobs)
	numSlices := g.NumUsers() / config.UsersPerBlockSlice
	if numSlices == 0 {
		numSlices = 1
	}
	locks := lock.NewArray(int(numSlices))
	slicesPerWorker := numSlices / w
	moviesPerWorker := g.NumMovies() / w

	items := make([]*workItem, w)
	for i := int32(0); i < w; i++ {
		wi := &workItem{
			movieRangeStart:    moviesPerWorker * i,
			movieRangeEnd:      moviesPerWorker * (i + 1),
			userRangeStart:     g.NumUsers() / w * i,
			userRangeEnd:       g.NumUsers(),
			usersPerBlockSlice: config.UsersPerBlockSlice,
			sliceStart:         slicesPerWorker * i,
			numSlices:          numSlices,
			id:                 int(i),
		}
		if i == w-1 {
			wi.movieRangeEnd = g.NumMovies()
		}
		items[i] = wi
	}
	log.Logger().Info("marching slices",
		zap.Int32("num_slices", numSlices),
		zap.Int32("slices_per_worker", slicesPerWorker))

	advanceCursors(g, items)
	step := schedule.Step(config.MarchRound)
	parallel.Static(int(w), func(workerId int) {
		march(g, locks, items[workerId], step)
	})
	return items
}

// march drives one worker through the slice ring until its visit budget is
// spent. A slice is entered under its spinlock; a failed try_lock is tallied
// as a conflict before blocking.
func march(g *graph.Graph, locks []lock.SpinLock, wi *workItem, step float64) {
	start := time.Now()
	sliceEnd := wi.userRangeStart
	sliceId := wi.sliceStart
	var visits int64
	for visits < MaxMovieUpdates*int64(wi.numSlices) {
		// The starting user offset and the starting slice id are rounded
		// down independently, so sliceId can overrun the ring before the
		// user axis wraps.
		l := &locks[sliceId%wi.numSlices]
		if !l.TryLock() {
			wi.conflicts++
			l.Lock()
		}

		sliceEnd += wi.usersPerBlockSlice
		if sliceEnd > wi.userRangeEnd {
			sliceEnd = wi.userRangeEnd
		}
		wi.updates += scanMovies(g, wi.movieRangeStart, wi.movieRangeEnd, sliceEnd, step)

		l.Unlock()
		sliceId++
		visits++
		if sliceEnd == wi.userRangeEnd {
			sliceId = 0
			sliceEnd = 0
		}
	}
	wi.elapsed = time.Since(start)
	log.Logger().Debug("march worker done",
		zap.Int("worker", wi.id),
		zap.Int64("updates", wi.updates),
		zap.Int64("conflicts", wi.conflicts),
		zap.Duration("elapsed", wi.elapsed))
}
