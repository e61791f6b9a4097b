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

// Package seek runs file-search queries against a single, stateful search
// engine and returns fully owned results.
//
// The underlying engine keeps one global query configuration and one result
// set. seek hides that behind value-typed queries:
//
//	items, err := seek.NewSearch("*.go").
//	    MatchPath(true).
//	    SortBy(seek.SortDateModified, seek.Descending).
//	    RequestMetadata(seek.MetadataSize | seek.MetadataDateModified).
//	    QueryRange(seek.First(100))
//
// Every query runs its whole configure, execute, and materialize cycle under
// a lock owned by the engine handle, so concurrent callers never observe each
// other's configuration. Returned items share nothing with the engine.
//
// Individual results that cannot be read are logged and skipped; a metadata
// field that cannot be read is left nil. Only whole-query failures (a rejected
// pattern, an unreachable engine, a poisoned lock) are returned as errors.
//
// A lock whose holder panicked is poisoned for the rest of the process: the
// engine state is unknown, so every later query on that handle fails with
// ErrLockPoisoned.
//
// The engine index is live. Consecutive range queries are not guaranteed to
// be consistent with each other; fetch everything needed in a single call.
package seek
