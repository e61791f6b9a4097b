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

// Package mock provides a scriptable engine.Engine for tests.
//
// The engine serves a fixed or computed result list, windowed by the staged
// range, and records the configuration seen by every Execute call. Per-result
// failures are injected through the error fields of Result; whole-query
// failures, delays, and panics through the Engine fields.
//
//	eng := mock.NewEngine(
//	    mock.File(`C:\a.txt`).WithSize(10),
//	    mock.Folder(`C:\dir`),
//	)
//	eng.ExecuteErr = &engine.Error{Op: "query", Code: engine.ErrorIPC}
//
// The engine counts calls that overlap in time, which lets tests detect
// unsynchronized use.
package mock
