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
	"bytes"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestSnapshot(t *testing.T) {
	g := fullGraph(t, 3, 4)
	trainer, err := NewTrainer(AlgoBlock, LearnIntel)
	assert.NoError(t, err)
	trainer.Init(g)
	want := make([][]float64, len(g.Factors))
	for i := range g.Factors {
		want[i] = append([]float64(nil), g.Factors[i]...)
	}

	var buf bytes.Buffer
	assert.NoError(t, Marshal(&buf, g))
	trainer.rng.FillUniform(g.Factors, 10, 11)
	assert.NoError(t, Unmarshal(&buf, g))
	assert.Equal(t, want, g.Factors)
}

func TestSnapshotShapeMismatch(t *testing.T) {
	g := fullGraph(t, 3, 4)
	var buf bytes.Buffer
	assert.NoError(t, Marshal(&buf, g))
	other := fullGraph(t, 4, 3)
	err := Unmarshal(&buf, other)
	assert.True(t, errors.IsNotValid(err))
}

func TestSnapshotBadHeader(t *testing.T) {
	g := fullGraph(t, 2, 2)
	buf := bytes.NewBufferString("\x02\x00\x00\x00hi")
	err := Unmarshal(buf, g)
	assert.True(t, errors.IsNotValid(err))

	err = Unmarshal(bytes.NewBuffer(nil), g)
	assert.Error(t, err)
}
