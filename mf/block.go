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

	"github.com/gridmf/gridmf/graph"
)

// blockFn processes one worker's current block and returns the number of
// gradient updates applied.
type blockFn func(g *graph.Graph, wi *workItem, step float64) int64

// scanMovies walks movies [movieStart, movieEnd), consuming each movie's
// edges from its cursor while the destination user index stays below
// sliceEnd. The cursor is left at the stopped position so the next user
// column resumes there, and resets to zero once the column reaches the last
// user.
func scanMovies(g *graph.Graph, movieStart, movieEnd, sliceEnd int32, step float64) int64 {
	bound := g.UserNode(sliceEnd)
	var updates int64
	for m := movieStart; m < movieEnd; m++ {
		targets, ratings := g.Row(m)
		cursor := g.Cursors[m]
		for cursor < int32(len(targets)) && targets[cursor] < bound {
			gradientUpdate(g.Factors[m], g.Factors[targets[cursor]], ratings[cursor], step)
			g.Updates[m]++
			cursor++
			updates++
		}
		if sliceEnd == g.NumUsers() {
			cursor = 0
		}
		g.Cursors[m] = cursor
	}
	return updates
}

// blockScan processes the whole block in one sweep.
func blockScan(g *graph.Graph, wi *workItem, step float64) int64 {
	return scanMovies(g, wi.movieRangeStart, wi.movieRangeEnd, wi.userRangeEnd, step)
}

// blockSliceUsersScan strides through the block in user sub-columns of width
// usersPerBlockSlice, clamped to the block's column end.
func blockSliceUsersScan(g *graph.Graph, wi *workItem, step float64) int64 {
	var updates int64
	sliceEnd := wi.userRangeStart
	for sliceEnd < wi.userRangeEnd {
		sliceEnd += wi.usersPerBlockSlice
		if sliceEnd > wi.userRangeEnd {
			sliceEnd = wi.userRangeEnd
		}
		updates += scanMovies(g, wi.movieRangeStart, wi.movieRangeEnd, sliceEnd, step)
	}
	return updates
}

// blockSliceBothScan additionally cuts the movie band into sub-bands of width
// moviesPerBlockSlice, processing every (user sub-column, movie sub-band)
// cell before advancing the user axis.
func blockSliceBothScan(g *graph.Graph, wi *workItem, step float64) int64 {
	var updates int64
	sliceEnd := wi.userRangeStart
	for sliceEnd < wi.userRangeEnd {
		sliceEnd += wi.usersPerBlockSlice
		if sliceEnd > wi.userRangeEnd {
			sliceEnd = wi.userRangeEnd
		}
		bandEnd := wi.movieRangeStart
		for bandEnd < wi.movieRangeEnd {
			bandStart := bandEnd
			bandEnd += wi.moviesPerBlockSlice
			if bandEnd > wi.movieRangeEnd {
				bandEnd = wi.movieRangeEnd
			}
			updates += scanMovies(g, bandStart, bandEnd, sliceEnd, step)
		}
	}
	return updates
}

// runBlock times one worker's sub-step and tallies its update count.
func runBlock(g *graph.Graph, wi *workItem, step float64, fn blockFn) {
	start := time.Now()
	wi.updates += fn(g, wi, step)
	wi.elapsed += time.Since(start)
}
