package seek

import (
	"fmt"
	"strings"
)

// Metadata is a set of optional per-item fields a search can request.
type Metadata uint32

const (
	MetadataSize Metadata = 1 << iota
	MetadataDateCreated
	MetadataDateModified
	MetadataDateAccessed
	MetadataAttributes

	// MetadataNone requests no optional fields.
	MetadataNone Metadata = 0

	// MetadataAll requests every optional field.
	MetadataAll = MetadataSize | MetadataDateCreated | MetadataDateModified |
		MetadataDateAccessed | MetadataAttributes
)

// metadataKinds lists the individual kinds in materialization order.
var metadataKinds = []Metadata{
	MetadataSize,
	MetadataDateCreated,
	MetadataDateModified,
	MetadataDateAccessed,
	MetadataAttributes,
}

var metadataNames = map[Metadata]string{
	MetadataSize:         "size",
	MetadataDateCreated:  "created",
	MetadataDateModified: "modified",
	MetadataDateAccessed: "accessed",
	MetadataAttributes:   "attributes",
}

// Has reports whether every kind in k is in the set.
func (m Metadata) Has(k Metadata) bool {
	return m&k == k
}

// Kinds returns the individual kinds in the set.
func (m Metadata) Kinds() []Metadata {
	kinds := make([]Metadata, 0, len(metadataKinds))
	for _, k := range metadataKinds {
		if m.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (m Metadata) String() string {
	if m == MetadataNone {
		return "none"
	}
	names := make([]string, 0, len(metadataKinds))
	for _, k := range m.Kinds() {
		names = append(names, metadataNames[k])
	}
	if rest := m &^ MetadataAll; rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(names, "|")
}

// ParseMetadata parses metadata kind names such as "size" or "modified".
// "all" selects every kind and "none" selects nothing.
func ParseMetadata(names ...string) (Metadata, error) {
	var m Metadata
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case "", "none":
			continue
		case "all":
			m |= MetadataAll
			continue
		}
		found := false
		for k, n := range metadataNames {
			if n == name {
				m |= k
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: %q", ErrUnknownMetadata, name)
		}
	}
	return m, nil
}
