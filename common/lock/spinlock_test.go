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

package lock

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestTryLock(t *testing.T) {
	var l SpinLock
	assert.True(t, l.TryLock())
	assert.True(t, l.Locked())
	assert.False(t, l.TryLock())
	l.Unlock()
	assert.False(t, l.Locked())
	assert.True(t, l.TryLock())
}

func TestLockExcludes(t *testing.T) {
	var l SpinLock
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Go(func() {
			for j := 0; j < 1000; j++ {
				l.Lock()
				counter++
				l.Unlock()
			}
		})
	}
	wg.Wait()
	assert.Equal(t, 8000, counter)
	assert.False(t, l.Locked())
}

func TestArrayPadding(t *testing.T) {
	locks := NewArray(4)
	assert.Len(t, locks, 4)
	assert.Equal(t, uintptr(cacheLineSize), unsafe.Sizeof(locks[0]))
}
