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

package local

import "errors"

var (
	// ErrBackendRequired is returned when an index is created without a backend.
	ErrBackendRequired = errors.New("backend required")

	// ErrIndexRequired is returned when a component is created without an index.
	ErrIndexRequired = errors.New("index required")

	// ErrNotFound indicates that no entry exists for a path.
	ErrNotFound = errors.New("entry not found")

	// ErrNotDirectory indicates that an index location or root is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrInvalidExclude indicates a malformed exclude glob.
	ErrInvalidExclude = errors.New("invalid exclude pattern")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrTruncatedData indicates that a stored entry ended early.
	ErrTruncatedData = errors.New("truncated data")
)
