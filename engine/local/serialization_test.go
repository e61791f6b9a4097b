package local

import (
	"math"
	"testing"

	"github.com/poiesic/seek/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntrySerialization(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
	}{
		{"zero value", Entry{}},
		{"file", Entry{
			Path:       "/home/user/notes/todo.md",
			Class:      engine.ClassFile,
			Size:       4096,
			Created:    133_000_000_000_000_000,
			Modified:   133_000_000_010_000_000,
			Accessed:   math.MaxUint64,
			Attributes: engine.AttributeArchive | engine.AttributeHidden,
			Known:      FieldSize | FieldCreated | FieldModified | FieldAccessed | FieldAttributes,
		}},
		{"folder with unknown size", Entry{
			Path:       "/home/user/Ünïcödé",
			Class:      engine.ClassFolder,
			Attributes: engine.AttributeDirectory,
			Known:      FieldModified | FieldAttributes,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalEntry(tt.entry)
			assert.Len(t, data, EntryMUS.Size(tt.entry))

			got, err := UnmarshalEntry(data)
			require.NoError(t, err)
			assert.Equal(t, tt.entry, got)
		})
	}
}

func TestUnmarshalEntry_Corrupt(t *testing.T) {
	data := MarshalEntry(Entry{Path: "/a/b", Class: engine.ClassFile, Size: 10})

	t.Run("truncated", func(t *testing.T) {
		_, err := UnmarshalEntry(data[:len(data)-1])
		assert.ErrorIs(t, err, ErrTruncatedData)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		_, err := UnmarshalEntry(append(data, 0))
		assert.ErrorIs(t, err, ErrTruncatedData)
	})
}
