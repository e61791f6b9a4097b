package seek

import (
	"fmt"
	"time"

	"github.com/poiesic/seek/engine"
)

// ItemType classifies a search result.
type ItemType int

const (
	File ItemType = iota + 1
	Folder
	Volume
)

func (t ItemType) String() string {
	switch t {
	case File:
		return "file"
	case Folder:
		return "folder"
	case Volume:
		return "volume"
	}
	return fmt.Sprintf("ItemType(%d)", int(t))
}

// MarshalText renders the type by name.
func (t ItemType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Item is one search result. It holds no reference to engine state.
//
// Optional fields are nil when they were not requested, or when they were
// requested but the engine could not provide them; the latter case is logged.
type Item struct {
	Path         string     `json:"path"`
	Type         ItemType   `json:"type"`
	Size         *uint64    `json:"size,omitempty"`
	DateCreated  *time.Time `json:"date_created,omitempty"`
	DateModified *time.Time `json:"date_modified,omitempty"`
	DateAccessed *time.Time `json:"date_accessed,omitempty"`
	Attributes   *uint32    `json:"attributes,omitempty"`
}

// classify maps engine classification bits to an item type. ok is false
// unless exactly one known bit is set.
func classify(c engine.Classification) (ItemType, bool) {
	switch c {
	case engine.ClassFile:
		return File, true
	case engine.ClassFolder:
		return Folder, true
	case engine.ClassVolume:
		return Volume, true
	}
	return 0, false
}
