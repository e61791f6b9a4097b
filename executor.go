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
	"log/slog"
	"time"

	"github.com/poiesic/seek/engine"
)

// Executor runs searches against one engine handle. Executors over the same
// handle share its lock, so any number of executors and goroutines may query
// concurrently; each query runs alone from configuration to materialization.
type Executor struct {
	lock         *engineLock
	logger       *slog.Logger
	monitor      QueryMonitor
	verification Verification
}

// NewExecutor creates an executor for eng. The handle must be comparable
// (typically a pointer), since its identity selects the shared lock. The lock
// registry keeps eng reachable until ReleaseEngine is called for it;
// LocalIndex.Close does so for its own engine.
func NewExecutor(eng engine.Engine, opts ...Option) (*Executor, error) {
	if eng == nil {
		return nil, ErrEngineRequired
	}

	x := &Executor{
		lock:         lockFor(eng),
		logger:       slog.Default(),
		monitor:      &noopMonitor{},
		verification: DefaultVerification(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(x); err != nil {
			return nil, err
		}
	}

	return x, nil
}

// QueryAll runs s and returns every result. For queries that may match many
// files, prefer QueryRange.
func (x *Executor) QueryAll(s Search) ([]Item, error) {
	return x.QueryRange(s, All())
}

// QueryRange runs s and returns the results inside r. A range past the end
// of the result set yields fewer items; an empty or inverted range yields an
// empty slice. The call blocks until the engine is free and cannot be
// cancelled.
func (x *Executor) QueryRange(s Search, r Range) (items []Item, err error) {
	offset, count := r.Normalize()
	fingerprint := s.Fingerprint()

	waitStart := time.Now()
	guard, err := x.lock.acquire()
	if err != nil {
		x.logger.Error("unable to acquire engine lock", "fingerprint", fingerprint, "err", err)
		return nil, &QueryError{Pattern: s.pattern, Regex: s.regex, Err: err}
	}
	defer guard.release()

	started := time.Now()
	x.monitor.LockAcquired(fingerprint, started.Sub(waitStart))
	x.monitor.Start(fingerprint, offset, count)
	defer func() {
		x.monitor.Finish(items, time.Since(started), err)
	}()

	items, err = x.run(guard.engine, s, offset, count, fingerprint)
	guard.complete()
	return items, err
}

// run stages s on eng, executes it and materializes the window. The caller
// holds the engine lock.
func (x *Executor) run(eng engine.Engine, s Search, offset, count uint32, fingerprint uint64) ([]Item, error) {
	if count == 0 {
		return []Item{}, nil
	}

	s.apply(eng)
	eng.SetRange(offset, count)
	if err := eng.Execute(); err != nil {
		x.logger.Error("search execution failed",
			"pattern", s.pattern, "regex", s.regex, "fingerprint", fingerprint, "err", err)
		return nil, &QueryError{Pattern: s.pattern, Regex: s.regex, Err: err}
	}

	available := eng.ResultCount()
	x.monitor.AfterExecute(available)

	m := &materializer{
		engine:       eng,
		metadata:     s.metadata,
		fingerprint:  fingerprint,
		logger:       x.logger,
		monitor:      x.monitor,
		verification: x.verification,
	}
	return m.drain(min(available, count)), nil
}

// Poisoned reports whether the executor's engine lock has been poisoned.
func (x *Executor) Poisoned() bool {
	return x.lock.isPoisoned()
}
