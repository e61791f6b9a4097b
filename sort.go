package seek

import (
	"fmt"
	"strings"
)

// SortKey selects the field results are ordered by.
type SortKey int

const (
	SortName SortKey = iota
	SortPath
	SortSize
	SortExtension
	SortTypeName
	SortDateCreated
	SortDateModified
	SortDateAccessed
	SortAttributes
)

var sortKeyNames = []string{
	SortName:         "name",
	SortPath:         "path",
	SortSize:         "size",
	SortExtension:    "extension",
	SortTypeName:     "type",
	SortDateCreated:  "created",
	SortDateModified: "modified",
	SortDateAccessed: "accessed",
	SortAttributes:   "attributes",
}

func (k SortKey) String() string {
	if k < 0 || int(k) >= len(sortKeyNames) {
		return fmt.Sprintf("SortKey(%d)", int(k))
	}
	return sortKeyNames[k]
}

// ParseSortKey parses a sort key name such as "path" or "modified".
func ParseSortKey(name string) (SortKey, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range sortKeyNames {
		if n == name {
			return SortKey(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSortKey, name)
}

// SortOrder is the direction of a sort.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "descending"
	}
	return "ascending"
}
