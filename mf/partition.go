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

	"github.com/gridmf/gridmf/common/parallel"
	"github.com/gridmf/gridmf/graph"
)

// workItem is the per-worker assignment of a grid scheduler. Movie ranges are
// fixed for a whole run; user ranges are rewritten at every column rotation.
// A user range [start, end) is interpreted by overshoot: a scan resumes from
// each movie's cursor and stops at the first destination at or beyond end.
type workItem struct {
	movieRangeStart int32
	movieRangeEnd   int32
	userRangeStart  int32
	userRangeEnd    int32

	usersPerBlockSlice  int32
	moviesPerBlockSlice int32

	// Marching scheduler only.
	sliceStart int32
	numSlices  int32

	id        int
	updates   int64
	conflicts int64
	elapsed   time.Duration
}

// gridPartition is a W-by-W block grid. Worker i keeps movie band i forever
// and visits every user column once per round.
type gridPartition struct {
	items     []*workItem
	colStarts []int32
	colEnds   []int32
}

// newGridPartition builds the diagonal assignment: worker i owns movie band i
// and user column i, the last worker absorbing both remainders.
func newGridPartition(g *graph.Graph, config *FitConfig) *gridPartition {
	w := int32(config.Jobs)
	moviesPerWorker := g.NumMovies() / w
	usersPerWorker := g.NumUsers() / w
	p := &gridPartition{
		items:     make([]*workItem, w),
		colStarts: make([]int32, w),
		colEnds:   make([]int32, w),
	}
	for i := int32(0); i < w; i++ {
		wi := &workItem{
			movieRangeStart:     moviesPerWorker * i,
			movieRangeEnd:       moviesPerWorker * (i + 1),
			userRangeStart:      usersPerWorker * i,
			userRangeEnd:        usersPerWorker * (i + 1),
			usersPerBlockSlice:  config.UsersPerBlockSlice,
			moviesPerBlockSlice: config.MoviesPerBlockSlice,
			id:                  int(i),
		}
		if i == w-1 {
			wi.movieRangeEnd = g.NumMovies()
			wi.userRangeEnd = g.NumUsers()
		}
		p.colStarts[i] = wi.userRangeStart
		p.colEnds[i] = wi.userRangeEnd
		p.items[i] = wi
	}
	return p
}

// rotate moves every worker's user column one step to the right after
// sub-step j: worker k leaves column (j+k) mod W for column (j+1+k) mod W.
func (p *gridPartition) rotate(j int) {
	w := len(p.items)
	for k := 0; k < w; k++ {
		next := (j + 1 + k) % w
		p.items[k].userRangeStart = p.colStarts[next]
		p.items[k].userRangeEnd = p.colEnds[next]
	}
}

// advanceCursors pre-positions each movie's edge cursor at the first edge at
// or beyond its owning worker's starting user column. Rows are sorted by
// destination, so the walk is monotone and runs once before round 0.
func advanceCursors(g *graph.Graph, items []*workItem) {
	parallel.Static(len(items), func(workerId int) {
		wi := items[workerId]
		bound := g.UserNode(wi.userRangeStart)
		for m := wi.movieRangeStart; m < wi.movieRangeEnd; m++ {
			targets, _ := g.Row(m)
			cursor := g.Cursors[m]
			for cursor < int32(len(targets)) && targets[cursor] < bound {
				cursor++
			}
			g.Cursors[m] = cursor
		}
	})
}
