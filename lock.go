// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package seek

import (
	"sync"

	"github.com/poiesic/seek/engine"
)

// engineLock serializes every interaction with one engine handle. A holder
// that panics or exits its goroutine poisons it permanently.
type engineLock struct {
	mu       sync.Mutex
	engine   engine.Engine
	poisoned bool
}

// lockGuard is proof of exclusive access. release must be deferred
// immediately after acquire succeeds, and complete called once the holder's
// work has returned normally.
type lockGuard struct {
	lock      *engineLock
	engine    engine.Engine
	completed bool
}

var (
	locksMu sync.Mutex
	locks   = map[engine.Engine]*engineLock{}
)

// lockFor returns the process-wide lock of eng, creating it on first use.
func lockFor(eng engine.Engine) *engineLock {
	locksMu.Lock()
	defer locksMu.Unlock()
	l, ok := locks[eng]
	if !ok {
		l = &engineLock{engine: eng}
		locks[eng] = l
	}
	return l
}

// ReleaseEngine forgets the lock of eng so the handle can be garbage
// collected. Executors created earlier keep the old lock and stay usable;
// executors created afterwards get a fresh, unpoisoned one. Call it once the
// handle is closed or no longer queried.
func ReleaseEngine(eng engine.Engine) {
	locksMu.Lock()
	defer locksMu.Unlock()
	delete(locks, eng)
}

// acquire blocks until the lock is free. It fails with ErrLockPoisoned if a
// previous holder terminated abnormally.
func (l *engineLock) acquire() (*lockGuard, error) {
	l.mu.Lock()
	if l.poisoned {
		l.mu.Unlock()
		return nil, ErrLockPoisoned
	}
	return &lockGuard{lock: l, engine: l.engine}, nil
}

// isPoisoned reports whether a holder terminated abnormally.
func (l *engineLock) isPoisoned() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.poisoned
}

// complete marks the holder's work as finished normally.
func (g *lockGuard) complete() {
	g.completed = true
}

// release unlocks. A holder that never called complete, because a panic is
// unwinding or runtime.Goexit ended its goroutine, poisons the lock first;
// a panic then continues. Must be called directly by defer.
func (g *lockGuard) release() {
	r := recover()
	if r != nil || !g.completed {
		g.lock.poisoned = true
	}
	g.lock.mu.Unlock()
	if r != nil {
		panic(r)
	}
}
