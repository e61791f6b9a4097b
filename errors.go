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
	"errors"
	"fmt"

	"github.com/poiesic/seek/engine"
)

var (
	// ErrEngineRequired is returned when an executor is created without an engine.
	ErrEngineRequired = errors.New("engine required")

	// ErrLockPoisoned is returned for every query on an engine whose lock holder
	// panicked. The engine state is unknown and is never reused.
	ErrLockPoisoned = errors.New("engine lock poisoned by a failed query")

	// ErrInvalidRange indicates a malformed range expression.
	ErrInvalidRange = errors.New("invalid range expression")

	// ErrUnknownSortKey indicates an unrecognized sort key name.
	ErrUnknownSortKey = errors.New("unknown sort key")

	// ErrUnknownMetadata indicates an unrecognized metadata kind name.
	ErrUnknownMetadata = errors.New("unknown metadata kind")

	// ErrUnknownVerification indicates an unrecognized verification mode name.
	ErrUnknownVerification = errors.New("unknown verification mode")
)

// QueryError is a whole-query failure: the lock could not be acquired or the
// engine refused to execute.
type QueryError struct {
	Pattern string
	Regex   bool
	Err     error
}

func (e *QueryError) Error() string {
	syntax := "search"
	if e.Regex {
		syntax = "regex search"
	}
	return fmt.Sprintf("%s %q failed: %v", syntax, e.Pattern, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// ConsistencyError reports a result whose classification is not exactly one
// of file, folder, or volume. It means the engine broke its own contract.
type ConsistencyError struct {
	Index          uint32
	Classification engine.Classification
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("result %d has classification bits %03b, want exactly one of file, folder, volume",
		e.Index, uint8(e.Classification))
}
