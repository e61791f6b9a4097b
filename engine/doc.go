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

// Package engine defines the boundary between seek and the file-search
// engine it drives.
//
// An Engine is a single, stateful, non-reentrant handle: its query
// configuration and its current result set are one unit of global state.
// Callers must never use an Engine concurrently; the seek package guarantees
// this by funnelling every interaction through a per-handle lock.
//
// The constants in this package mirror the native request, sort, and error
// codes of the Everything SDK so that the SDK binding can pass them through
// unchanged. Other implementations (the local index and the test mock)
// interpret the same codes.
package engine
