//go:build windows

package local

import (
	"io/fs"
	"syscall"
)

// statPlatform copies the native times and attributes Windows reports with
// every stat.
func statPlatform(_ string, info fs.FileInfo, e *Entry) {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return
	}
	e.Created = uint64(data.CreationTime.HighDateTime)<<32 | uint64(data.CreationTime.LowDateTime)
	e.Accessed = uint64(data.LastAccessTime.HighDateTime)<<32 | uint64(data.LastAccessTime.LowDateTime)
	e.Attributes = data.FileAttributes
	e.Known |= FieldCreated | FieldAccessed | FieldAttributes
}
