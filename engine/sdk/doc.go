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

// Package sdk binds the Everything search engine through its SDK library.
//
// The SDK keeps one global query state per process, so Open always returns
// the same handle. The library must be on the DLL search path and the
// Everything service must be running; otherwise Execute reports
// engine.ErrorIPC.
//
// On platforms other than Windows, Open returns ErrUnsupportedPlatform.
package sdk
