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

// Package lock provides a cache-line padded spinlock array used to gate
// ownership of user slices in the marching scheduler.
package lock

import (
	"runtime"
	"sync/atomic"
)

const cacheLineSize = 64

// SpinLock is a test-and-set lock padded to a cache line so that adjacent
// locks in an array never share a line.
type SpinLock struct {
	state uint32
	_     [cacheLineSize - 4]byte
}

// TryLock acquires the lock without blocking. Returns false if the lock is
// held by another worker.
func (l *SpinLock) TryLock() bool {
	return atomic.CompareAndSwapUint32(&l.state, 0, 1)
}

// Lock spins until the lock is acquired, yielding the processor between
// attempts once the fast path fails.
func (l *SpinLock) Lock() {
	for !l.TryLock() {
		for atomic.LoadUint32(&l.state) == 1 {
			runtime.Gosched()
		}
	}
}

// Unlock releases the lock.
func (l *SpinLock) Unlock() {
	atomic.StoreUint32(&l.state, 0)
}

// Locked reports whether the lock is currently held.
func (l *SpinLock) Locked() bool {
	return atomic.LoadUint32(&l.state) == 1
}

// NewArray allocates n padded spinlocks.
func NewArray(n int) []SpinLock {
	return make([]SpinLock, n)
}
