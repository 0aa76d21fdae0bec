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

package parallel

import (
	"context"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/atomic"
)

func TestParallel(t *testing.T) {
	for _, nWorkers := range []int{1, 4} {
		done := make([]bool, 100)
		err := Parallel(context.Background(), len(done), nWorkers, func(workerId, jobId int) error {
			assert.Less(t, workerId, nWorkers)
			done[jobId] = true
			return nil
		})
		assert.NoError(t, err)
		for _, d := range done {
			assert.True(t, d)
		}
	}
}

func TestParallelFail(t *testing.T) {
	err := Parallel(context.Background(), 100, 4, func(workerId, jobId int) error {
		if jobId == 42 {
			return errors.New("boom")
		}
		return nil
	})
	assert.Error(t, err)
}

func TestParallelCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Parallel(ctx, 100, 1, func(workerId, jobId int) error {
		return nil
	})
	assert.ErrorIs(t, errors.Cause(err), context.Canceled)
}

func TestFor(t *testing.T) {
	for _, nWorkers := range []int{1, 4} {
		count := atomic.NewInt64(0)
		For(100, nWorkers, func(i int) {
			count.Add(int64(i))
		})
		assert.Equal(t, int64(4950), count.Load())
	}
}

func TestForEach(t *testing.T) {
	values := []int32{3, 1, 4, 1, 5, 9, 2, 6}
	sum := atomic.NewInt64(0)
	ForEach(values, 4, func(i int, v int32) {
		sum.Add(int64(v))
	})
	assert.Equal(t, int64(31), sum.Load())
}

func TestStatic(t *testing.T) {
	seen := mapset.NewSet[int]()
	Static(8, func(workerId int) {
		assert.True(t, seen.Add(workerId))
	})
	assert.Equal(t, 8, seen.Cardinality())
}

func TestSplit(t *testing.T) {
	chunks := Split([]int{1, 2, 3, 4, 5}, 2)
	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5}}, chunks)
	chunks = Split([]int{1}, 3)
	assert.Equal(t, [][]int{{1}}, chunks)
	assert.Nil(t, Split([]int(nil), 2))
}
