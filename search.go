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
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/poiesic/seek/engine"
)

// Search describes one query. It is a comparable value: setters return a
// modified copy, so a Search can be shared, reused, and used as a map key.
//
// The syntax (native or regular expression) is fixed by the constructor.
type Search struct {
	pattern        string
	regex          bool
	matchCase      bool
	matchPath      bool
	matchWholeWord bool
	sortKey        SortKey
	sortOrder      SortOrder
	metadata       Metadata
}

// NewSearch creates a search using the engine's native syntax, which supports
// wildcards (*, ?) and boolean operators.
func NewSearch(pattern string) Search {
	return Search{pattern: pattern}
}

// NewRegexSearch creates a search whose pattern is a regular expression.
func NewRegexSearch(pattern string) Search {
	return Search{pattern: pattern, regex: true}
}

// MatchCase sets whether matching is case-sensitive. Off by default.
func (s Search) MatchCase(enabled bool) Search {
	s.matchCase = enabled
	return s
}

// MatchPath sets whether the pattern is matched against full paths instead
// of names. Off by default.
func (s Search) MatchPath(enabled bool) Search {
	s.matchPath = enabled
	return s
}

// MatchWholeWord sets whether terms only match whole words. Off by default.
func (s Search) MatchWholeWord(enabled bool) Search {
	s.matchWholeWord = enabled
	return s
}

// SortBy sets the result order. The default is name, ascending.
func (s Search) SortBy(key SortKey, order SortOrder) Search {
	s.sortKey = key
	s.sortOrder = order
	return s
}

// RequestMetadata adds optional fields to every returned item. Repeated
// calls accumulate.
func (s Search) RequestMetadata(m Metadata) Search {
	s.metadata |= m
	return s
}

func (s Search) Pattern() string            { return s.pattern }
func (s Search) IsRegex() bool              { return s.regex }
func (s Search) IsMatchCase() bool          { return s.matchCase }
func (s Search) IsMatchPath() bool          { return s.matchPath }
func (s Search) IsMatchWholeWord() bool     { return s.matchWholeWord }
func (s Search) Sort() (SortKey, SortOrder) { return s.sortKey, s.sortOrder }
func (s Search) Metadata() Metadata         { return s.metadata }

// Fingerprint returns a stable hash of the full configuration. Searches built
// with the same calls have the same fingerprint.
func (s Search) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(s.pattern)))
	d.Write(buf[:])
	d.WriteString(s.pattern)
	flags := uint64(0)
	for i, b := range []bool{s.regex, s.matchCase, s.matchPath, s.matchWholeWord} {
		if b {
			flags |= 1 << i
		}
	}
	binary.LittleEndian.PutUint64(buf[:], flags)
	d.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(nativeSort(s.sortKey, s.sortOrder)))
	d.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(s.metadata))
	d.Write(buf[:])
	return d.Sum64()
}

// QueryAll runs the search on the default executor and returns every result.
// For queries that may match many files, prefer QueryRange.
func (s Search) QueryAll() ([]Item, error) {
	return s.QueryRange(All())
}

// QueryRange runs the search on the default executor and returns the results
// inside r.
func (s Search) QueryRange(r Range) ([]Item, error) {
	x, err := Default()
	if err != nil {
		return nil, err
	}
	return x.QueryRange(s, r)
}

// apply pushes the configuration into the engine. Must be called with the
// engine lock held.
func (s Search) apply(eng engine.Engine) {
	eng.SetSearch(s.pattern, s.regex)
	eng.SetMatchCase(s.matchCase)
	eng.SetMatchPath(s.matchPath)
	eng.SetMatchWholeWord(s.matchWholeWord)
	eng.SetSort(nativeSort(s.sortKey, s.sortOrder))
	eng.SetRequestFlags(nativeRequestFlags(s.metadata))
}
