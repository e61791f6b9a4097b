package local

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// Key prefixes for different data types
const (
	entryPrefix = "ent:"
	pathPrefix  = "pth:"
	rootPrefix  = "rot:"
)

// pathID derives a fixed-width identifier from a path using BLAKE2b, so that
// identical paths always produce identical keys.
func pathID(path string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(path))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// makeEntryKey generates the primary key of an entry.
// Format: prefix + id (big endian)
func makeEntryKey(id uint64) []byte {
	buf := make([]byte, len(entryPrefix)+8)
	offset := copy(buf, entryPrefix)
	binary.BigEndian.PutUint64(buf[offset:], id)
	return buf
}

// makePathKey generates the path index key of an entry. Path keys sort
// lexicographically, so every entry under a directory shares its prefix.
// Format: prefix + path
func makePathKey(path string) []byte {
	buf := make([]byte, len(pathPrefix)+len(path))
	offset := copy(buf, pathPrefix)
	copy(buf[offset:], path)
	return buf
}

// pathFromKey extracts the path from a path index key.
func pathFromKey(key []byte) string {
	return string(key[len(pathPrefix):])
}

// makeRootKey generates the key of a root record.
// Format: prefix + path
func makeRootKey(path string) []byte {
	return append([]byte(rootPrefix), path...)
}
