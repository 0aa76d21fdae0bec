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
	"encoding/binary"
	"io"

	"github.com/juju/errors"

	"github.com/gridmf/gridmf/base/encoding"
	"github.com/gridmf/gridmf/graph"
)

// snapshotMagic heads every factor snapshot.
const snapshotMagic = "gridmf.factors"

// Marshal writes the latent factors of a trained graph.
func Marshal(w io.Writer, g *graph.Graph) error {
	if err := encoding.WriteString(w, snapshotMagic); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Write(w, binary.LittleEndian, g.NumMovies()); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Write(w, binary.LittleEndian, g.NumUsers()); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.WriteMatrix(w, g.Factors); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// Unmarshal restores latent factors into a graph with matching shape.
func Unmarshal(r io.Reader, g *graph.Graph) error {
	magic, err := encoding.ReadString(r)
	if err != nil {
		return errors.Trace(err)
	}
	if magic != snapshotMagic {
		return errors.NotValidf("snapshot header %q", magic)
	}
	var numMovies, numUsers int32
	if err := binary.Read(r, binary.LittleEndian, &numMovies); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &numUsers); err != nil {
		return errors.Trace(err)
	}
	if numMovies != g.NumMovies() || numUsers != g.NumUsers() {
		return errors.NotValidf("factors for %d movies and %d users against a graph with %d movies and %d users",
			numMovies, numUsers, g.NumMovies(), g.NumUsers())
	}
	if err := encoding.ReadMatrix(r, g.Factors); err != nil {
		return errors.Trace(err)
	}
	return nil
}
