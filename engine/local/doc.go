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

// Package local implements engine.Engine over a persistent index of the
// local filesystem.
//
// It stands in for the Everything service on systems where it is not
// available. An Indexer walks directory trees into a BadgerDB-backed Index,
// a Watcher keeps the index current from filesystem notifications, and an
// Engine answers searches from it.
//
// # Search syntax
//
// Native patterns are whitespace-separated terms that must all match.
// Double quotes group words into one term, a leading ! negates a term, and
// a|b matches either alternative. Terms holding *, ? or [ are wildcards
// matched against the whole name (or the whole path when path matching is
// on or the term contains a separator); other terms match anywhere in the
// name. Regular expressions use .NET syntax.
//
// # Usage
//
//	backend, err := local.OpenBackend(dir, false, nil)
//	index, err := local.NewIndex(backend)
//	indexer, err := local.NewIndexer(index, local.WithExcludes("**/.git"))
//	stats, err := indexer.Index(ctx, home)
//	eng, err := local.NewEngine(index)
//
// Attribute bits are derived from file modes outside Windows. Creation
// times come from statx on Linux and are unknown on other Unix systems.
package local
