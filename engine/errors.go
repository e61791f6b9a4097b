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

package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates that a result field could not be retrieved.
	ErrUnavailable = errors.New("result field unavailable")

	// ErrInvalidIndex indicates a result index outside the visible window.
	ErrInvalidIndex = errors.New("invalid result index")

	// ErrPatternRejected indicates that the engine refused the search expression.
	ErrPatternRejected = errors.New("search pattern rejected")

	// ErrNotExecuted indicates that results were read before a successful Execute.
	ErrNotExecuted = errors.New("query not executed")
)

// ErrorCode is a native engine error code.
type ErrorCode uint32

// Native error codes.
const (
	ErrorOK               ErrorCode = 0
	ErrorMemory           ErrorCode = 1
	ErrorIPC              ErrorCode = 2
	ErrorRegisterClassEx  ErrorCode = 3
	ErrorCreateWindow     ErrorCode = 4
	ErrorCreateThread     ErrorCode = 5
	ErrorInvalidIndex     ErrorCode = 6
	ErrorInvalidCall      ErrorCode = 7
	ErrorInvalidRequest   ErrorCode = 8
	ErrorInvalidParameter ErrorCode = 9
)

var errorCodeNames = map[ErrorCode]string{
	ErrorOK:               "ok",
	ErrorMemory:           "out of memory",
	ErrorIPC:              "search client is not running",
	ErrorRegisterClassEx:  "unable to register window class",
	ErrorCreateWindow:     "unable to create listening window",
	ErrorCreateThread:     "unable to create listening thread",
	ErrorInvalidIndex:     "invalid index",
	ErrorInvalidCall:      "invalid call",
	ErrorInvalidRequest:   "invalid request data",
	ErrorInvalidParameter: "bad parameter",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("error code %d", uint32(c))
}

// Error is a failure reported by the engine with a native error code.
type Error struct {
	Op   string
	Code ErrorCode
}

func (e *Error) Error() string {
	return fmt.Sprintf("engine %s: %s", e.Op, e.Code)
}

// Is lets errors.Is match native codes against the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidIndex:
		return e.Code == ErrorInvalidIndex
	case ErrNotExecuted:
		return e.Code == ErrorInvalidCall
	}
	return false
}
