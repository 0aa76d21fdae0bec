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

// Package floats provides scalar kernels over float64 vectors. Latent factors
// are float64 because the clamp bounds (±1e100) exceed the float32 range.
package floats

import "math"

// Dot computes the dot product of two vectors.
func Dot(a, b []float64) (ret float64) {
	if len(a) != len(b) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		ret += a[i] * b[i]
	}
	return
}

// Zero fills zeros in a slice of 64-bit floats.
func Zero(a []float64) {
	for i := range a {
		a[i] = 0
	}
}

// MatZero fills zeros in a matrix of 64-bit floats.
func MatZero(x [][]float64) {
	for i := range x {
		for j := range x[i] {
			x[i][j] = 0
		}
	}
}

// MulConst multiplies a vector by a constant in place: a *= b
func MulConst(a []float64, b float64) {
	for i := range a {
		a[i] *= b
	}
}

// MulConstTo multiplies a vector by a constant and saves the result in dst: dst = a * b
func MulConstTo(a []float64, b float64, dst []float64) {
	if len(a) != len(dst) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		dst[i] = a[i] * b
	}
}

// MulConstAdd multiplies a vector by a constant and adds to dst: dst += a * c
func MulConstAdd(a []float64, c float64, dst []float64) {
	if len(a) != len(dst) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		dst[i] += a[i] * c
	}
}

// SubTo subtracts one vector by another and saves the result in dst: dst = a - b
func SubTo(a, b, dst []float64) {
	if len(dst) != len(b) || len(a) != len(b) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		dst[i] = a[i] - b[i]
	}
}

// AddTo adds two vectors and saves the result in dst: dst = a + b
func AddTo(a, b, dst []float64) {
	if len(dst) != len(b) || len(a) != len(b) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		dst[i] = a[i] + b[i]
	}
}

// Clamp limits v to the interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Euclidean computes the Euclidean distance between two vectors.
func Euclidean(a, b []float64) (ret float64) {
	if len(a) != len(b) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		ret += (a[i] - b[i]) * (a[i] - b[i])
	}
	return math.Sqrt(ret)
}
