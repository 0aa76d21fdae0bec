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

// Package dataset loads rating triplets from disk and assembles the bipartite
// rating graph consumed by the trainer. The engine itself never parses files;
// this package is the loader collaborator it assumes.
package dataset

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/gridmf/gridmf/base/log"
	"github.com/gridmf/gridmf/graph"
)

// Dataset accumulates rating triplets before graph assembly. Movie and user
// ids may be arbitrary strings; they are mapped to dense indices in first-seen
// order.
type Dataset struct {
	movieDict *FreqDict
	userDict  *FreqDict
	ratings   []graph.Rating
	seen      mapset.Set[int64]
}

func NewDataset() *Dataset {
	return &Dataset{
		movieDict: NewFreqDict(),
		userDict:  NewFreqDict(),
		seen:      mapset.NewSet[int64](),
	}
}

// Add records one rating. Duplicate (movie, user) pairs keep the first value.
func (d *Dataset) Add(movieId, userId string, value int32) {
	movie := d.movieDict.Id(movieId)
	user := d.userDict.Id(userId)
	key := int64(movie)<<32 | int64(user)
	if !d.seen.Add(key) {
		return
	}
	d.ratings = append(d.ratings, graph.Rating{Movie: movie, User: user, Value: value})
}

// CountMovies returns the number of distinct movies.
func (d *Dataset) CountMovies() int32 { return d.movieDict.Count() }

// CountUsers returns the number of distinct users.
func (d *Dataset) CountUsers() int32 { return d.userDict.Count() }

// CountRatings returns the number of distinct ratings.
func (d *Dataset) CountRatings() int { return len(d.ratings) }

// MovieDict returns the movie id dictionary.
func (d *Dataset) MovieDict() *FreqDict { return d.movieDict }

// UserDict returns the user id dictionary.
func (d *Dataset) UserDict() *FreqDict { return d.userDict }

// Graph assembles the CSR rating graph.
func (d *Dataset) Graph() (*graph.Graph, error) {
	g, err := graph.Build(d.movieDict.Count(), d.userDict.Count(), d.ratings)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return g, nil
}

// LoadRatings reads a triplet file (one `movie user rating` per line, comma or
// whitespace separated, `#` and `%` comment lines skipped) and builds the
// rating graph.
func LoadRatings(path string) (*graph.Graph, error) {
	d := NewDataset()
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotatef(err, "open %s", path)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "%") {
			continue
		}
		fields := lo.Filter(strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == '\t' || r == ' '
		}), func(s string, _ int) bool { return s != "" })
		if len(fields) < 3 {
			return nil, errors.NotValidf("line %d of %s", lineno, path)
		}
		value, err := strconv.ParseInt(fields[2], 10, 32)
		if err != nil {
			return nil, errors.Annotatef(err, "line %d of %s", lineno, path)
		}
		d.Add(fields[0], fields[1], int32(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	g, err := d.Graph()
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("loaded ratings",
		zap.String("path", path),
		zap.Int32("movies", g.NumMovies()),
		zap.Int32("users", g.NumUsers()),
		zap.Int("ratings", g.NumRatings()))
	return g, nil
}
