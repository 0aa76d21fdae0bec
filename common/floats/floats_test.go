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

package floats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDot(t *testing.T) {
	assert.Equal(t, 32.0, Dot([]float64{1, 2, 3}, []float64{4, 5, 6}))
	assert.Panics(t, func() { Dot([]float64{1}, []float64{1, 2}) })
}

func TestZero(t *testing.T) {
	a := []float64{1, 2, 3}
	Zero(a)
	assert.Equal(t, []float64{0, 0, 0}, a)
	m := [][]float64{{1, 2}, {3}}
	MatZero(m)
	assert.Equal(t, [][]float64{{0, 0}, {0}}, m)
}

func TestMulConst(t *testing.T) {
	a := []float64{1, 2, 3}
	MulConst(a, 2)
	assert.Equal(t, []float64{2, 4, 6}, a)

	dst := make([]float64, 3)
	MulConstTo(a, 0.5, dst)
	assert.Equal(t, []float64{1, 2, 3}, dst)

	MulConstAdd(a, 1, dst)
	assert.Equal(t, []float64{3, 6, 9}, dst)
}

func TestAddSub(t *testing.T) {
	dst := make([]float64, 2)
	AddTo([]float64{1, 2}, []float64{3, 4}, dst)
	assert.Equal(t, []float64{4, 6}, dst)
	SubTo([]float64{3, 4}, []float64{1, 2}, dst)
	assert.Equal(t, []float64{2, 2}, dst)
	assert.Panics(t, func() { AddTo([]float64{1}, []float64{1, 2}, dst) })
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(2, -1, 1))
	assert.Equal(t, -1.0, Clamp(-2, -1, 1))
	assert.Equal(t, 0.5, Clamp(0.5, -1, 1))
}

func TestEuclidean(t *testing.T) {
	assert.Equal(t, 5.0, Euclidean([]float64{0, 0}, []float64{3, 4}))
}
