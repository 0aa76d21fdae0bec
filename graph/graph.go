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

// Package graph holds the bipartite rating graph: an immutable movie-to-user
// CSR topology plus the mutable per-node training state (latent factors,
// update counts and per-movie edge cursors).
package graph

import (
	"sort"

	"github.com/juju/errors"
)

const (
	// LatentVectorSize is the dimension of every latent factor vector.
	LatentVectorSize = 20
	// MinValue and MaxValue clamp predictions during evaluation.
	MinValue = -1e100
	MaxValue = 1e100
)

// Rating is one observed movie-user rating.
type Rating struct {
	Movie int32
	User  int32
	Value int32
}

// Graph is a bipartite rating graph in CSR form. Node ids 0..M-1 are movies,
// M..M+U-1 are users. Within each movie row, edges are sorted by destination
// user node ascending; the schedulers depend on this to stop a scan at the
// first destination beyond the current user column.
type Graph struct {
	numMovies int32
	numUsers  int32

	offsets []int64 // row starts, len numMovies+1
	targets []int32 // destination user nodes (biased by numMovies)
	ratings []int32

	// Mutable training state. Factors covers all nodes; Updates and Cursors
	// cover movies only. Cursors are scheduling state kept alongside the node
	// because each movie has a single writer thread throughout a round.
	Factors [][]float64
	Updates []int32
	Cursors []int32
}

// Build assembles a graph from rating triplets. Movie and user ids must be
// dense and zero-based on their own axes. Adjacency lists are sorted by
// destination, so any loader order is accepted.
func Build(numMovies, numUsers int32, ratings []Rating) (*Graph, error) {
	if numMovies <= 0 || numUsers <= 0 {
		return nil, errors.NotValidf("graph with %d movies and %d users", numMovies, numUsers)
	}
	g := &Graph{
		numMovies: numMovies,
		numUsers:  numUsers,
		offsets:   make([]int64, numMovies+1),
		targets:   make([]int32, len(ratings)),
		ratings:   make([]int32, len(ratings)),
		Factors:   make([][]float64, numMovies+numUsers),
		Updates:   make([]int32, numMovies),
		Cursors:   make([]int32, numMovies),
	}
	for i := range g.Factors {
		g.Factors[i] = make([]float64, LatentVectorSize)
	}
	// counting pass
	for _, r := range ratings {
		if r.Movie < 0 || r.Movie >= numMovies {
			return nil, errors.NotValidf("movie id %d", r.Movie)
		}
		if r.User < 0 || r.User >= numUsers {
			return nil, errors.NotValidf("user id %d", r.User)
		}
		g.offsets[r.Movie+1]++
	}
	for m := int32(0); m < numMovies; m++ {
		g.offsets[m+1] += g.offsets[m]
	}
	// placement pass
	cursor := make([]int64, numMovies)
	for _, r := range ratings {
		pos := g.offsets[r.Movie] + cursor[r.Movie]
		g.targets[pos] = r.User + numMovies
		g.ratings[pos] = r.Value
		cursor[r.Movie]++
	}
	// sort each row by destination
	for m := int32(0); m < numMovies; m++ {
		lo, hi := g.offsets[m], g.offsets[m+1]
		row := rowSorter{targets: g.targets[lo:hi], ratings: g.ratings[lo:hi]}
		sort.Sort(row)
	}
	return g, nil
}

type rowSorter struct {
	targets []int32
	ratings []int32
}

func (s rowSorter) Len() int           { return len(s.targets) }
func (s rowSorter) Less(i, j int) bool { return s.targets[i] < s.targets[j] }
func (s rowSorter) Swap(i, j int) {
	s.targets[i], s.targets[j] = s.targets[j], s.targets[i]
	s.ratings[i], s.ratings[j] = s.ratings[j], s.ratings[i]
}

// NumMovies returns the number of movie nodes.
func (g *Graph) NumMovies() int32 { return g.numMovies }

// NumUsers returns the number of user nodes.
func (g *Graph) NumUsers() int32 { return g.numUsers }

// NumRatings returns the total number of rating edges.
func (g *Graph) NumRatings() int { return len(g.targets) }

// Degree returns the out-degree of a movie.
func (g *Graph) Degree(movie int32) int32 {
	return int32(g.offsets[movie+1] - g.offsets[movie])
}

// Row returns the destinations and ratings of a movie's adjacency list.
func (g *Graph) Row(movie int32) (targets, ratings []int32) {
	lo, hi := g.offsets[movie], g.offsets[movie+1]
	return g.targets[lo:hi], g.ratings[lo:hi]
}

// UserNode converts a user index to its node id.
func (g *Graph) UserNode(user int32) int32 { return user + g.numMovies }

// UserIndex converts a user node id to its user index.
func (g *Graph) UserIndex(node int32) int32 { return node - g.numMovies }

// ResetCursors zeroes every movie's edge cursor.
func (g *Graph) ResetCursors() {
	for i := range g.Cursors {
		g.Cursors[i] = 0
	}
}

// ResetUpdates zeroes every movie's update counter.
func (g *Graph) ResetUpdates() {
	for i := range g.Updates {
		g.Updates[i] = 0
	}
}

// Validate re-checks the layout invariants an external loader must honor:
// every edge terminates at a user node and every row is sorted by destination.
func (g *Graph) Validate() error {
	for m := int32(0); m < g.numMovies; m++ {
		targets, _ := g.Row(m)
		prev := int32(-1)
		for _, t := range targets {
			if t < g.numMovies || t >= g.numMovies+g.numUsers {
				return errors.NotValidf("edge %d->%d outside the user range", m, t)
			}
			if t < prev {
				return errors.NotValidf("unsorted adjacency of movie %d", m)
			}
			prev = t
		}
	}
	return nil
}

// BandCounts tallies ratings per contiguous user band, one band per worker.
// The last band absorbs the remainder.
func (g *Graph) BandCounts(workers int) []int64 {
	counts := make([]int64, workers)
	perBand := g.numUsers / int32(workers)
	if perBand == 0 {
		perBand = 1
	}
	for _, t := range g.targets {
		user := g.UserIndex(t)
		band := int(user / perBand)
		if band >= workers {
			band = workers - 1
		}
		counts[band]++
	}
	return counts
}
