package local

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/seek/engine"
)

// Field is a set of entry attributes whose values are known.
type Field uint8

const (
	FieldSize Field = 1 << iota
	FieldCreated
	FieldModified
	FieldAccessed
	FieldAttributes
)

// Has reports whether every field in f is set.
func (k Field) Has(f Field) bool {
	return k&f == f
}

// Entry is one indexed filesystem object. Times are FILETIME values.
type Entry struct {
	Path       string
	Class      engine.Classification
	Size       int64
	Created    uint64
	Modified   uint64
	Accessed   uint64
	Attributes uint32
	Known      Field
}

// Name returns the last element of the path. Volumes are named by their path.
func (e Entry) Name() string {
	if e.Class == engine.ClassVolume {
		return e.Path
	}
	return filepath.Base(e.Path)
}

// Extension returns the lower-cased extension without the dot. Folders and
// volumes have none.
func (e Entry) Extension() string {
	if e.Class != engine.ClassFile {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(e.Path), "."))
}

// TypeName describes the kind of entry the way a file manager would.
func (e Entry) TypeName() string {
	switch e.Class {
	case engine.ClassFolder:
		return "file folder"
	case engine.ClassVolume:
		return "local disk"
	}
	if ext := e.Extension(); ext != "" {
		return ext + " file"
	}
	return "file"
}

// isVolume reports whether path is a filesystem root.
func isVolume(path string) bool {
	return filepath.Dir(path) == path
}

// entryFromInfo builds an entry from a stat result. Platform-specific fields
// are filled when the platform provides them.
func entryFromInfo(path string, info fs.FileInfo) Entry {
	e := Entry{
		Path:     path,
		Modified: filetime(info.ModTime()),
		Known:    FieldModified | FieldAttributes,
	}
	switch {
	case info.IsDir() && isVolume(path):
		e.Class = engine.ClassVolume
	case info.IsDir():
		e.Class = engine.ClassFolder
	default:
		e.Class = engine.ClassFile
		e.Size = info.Size()
		e.Known |= FieldSize
	}
	e.Attributes = modeAttributes(info)
	statPlatform(path, info, &e)
	return e
}

// modeAttributes derives native attribute bits from the portable file mode.
func modeAttributes(info fs.FileInfo) uint32 {
	var attrs uint32
	mode := info.Mode()
	if mode.IsDir() {
		attrs |= engine.AttributeDirectory
	}
	if mode&fs.ModeSymlink != 0 {
		attrs |= engine.AttributeReparse
	}
	if mode.Perm()&0o222 == 0 {
		attrs |= engine.AttributeReadOnly
	}
	if strings.HasPrefix(info.Name(), ".") && info.Name() != "." && info.Name() != ".." {
		attrs |= engine.AttributeHidden
	}
	if attrs == 0 {
		attrs = engine.AttributeNormal
	}
	return attrs
}

// filetime converts t to 100-nanosecond ticks since 1601, saturating at
// both ends of the range.
func filetime(t time.Time) uint64 {
	return engine.TimeToFiletime(t)
}
