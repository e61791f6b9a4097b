package local

import (
	"fmt"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/seek/engine"
)

// EntryMUS is the MUS serializer of Entry.
var EntryMUS = entryMUS{}

var _ mus.Serializer[Entry] = entryMUS{}

type entryMUS struct{}

func (s entryMUS) Marshal(e Entry, bs []byte) (n int) {
	n = ord.String.Marshal(e.Path, bs)
	n += varint.Uint32.Marshal(uint32(e.Class), bs[n:])
	n += varint.Int64.Marshal(e.Size, bs[n:])
	n += varint.Uint64.Marshal(e.Created, bs[n:])
	n += varint.Uint64.Marshal(e.Modified, bs[n:])
	n += varint.Uint64.Marshal(e.Accessed, bs[n:])
	n += varint.Uint32.Marshal(e.Attributes, bs[n:])
	n += varint.Uint32.Marshal(uint32(e.Known), bs[n:])
	return
}

func (s entryMUS) Unmarshal(bs []byte) (e Entry, n int, err error) {
	e.Path, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var (
		n1    int
		class uint32
		known uint32
	)
	if class, n1, err = varint.Uint32.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	e.Class = engine.Classification(class)
	if e.Size, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if e.Created, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if e.Modified, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if e.Accessed, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if e.Attributes, n1, err = varint.Uint32.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if known, n1, err = varint.Uint32.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	e.Known = Field(known)
	return
}

func (s entryMUS) Size(e Entry) (size int) {
	size = ord.String.Size(e.Path)
	size += varint.Uint32.Size(uint32(e.Class))
	size += varint.Int64.Size(e.Size)
	size += varint.Uint64.Size(e.Created)
	size += varint.Uint64.Size(e.Modified)
	size += varint.Uint64.Size(e.Accessed)
	size += varint.Uint32.Size(e.Attributes)
	size += varint.Uint32.Size(uint32(e.Known))
	return
}

func (s entryMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// MarshalEntry serializes an Entry to bytes.
func MarshalEntry(e Entry) []byte {
	buf := make([]byte, EntryMUS.Size(e))
	EntryMUS.Marshal(e, buf)
	return buf
}

// UnmarshalEntry deserializes an Entry from bytes.
func UnmarshalEntry(data []byte) (Entry, error) {
	e, n, err := EntryMUS.Unmarshal(data)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrTruncatedData, err)
	}
	if n != len(data) {
		return Entry{}, fmt.Errorf("%w: %d trailing bytes", ErrTruncatedData, len(data)-n)
	}
	return e, nil
}
