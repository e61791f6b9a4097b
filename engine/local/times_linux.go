//go:build linux

package local

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"
)

// statPlatform fills birth and access times from statx. Filesystems that do
// not record birth times leave the creation date unknown.
func statPlatform(path string, _ fs.FileInfo, e *Entry) {
	var stx unix.Statx_t
	mask := unix.STATX_BTIME | unix.STATX_ATIME
	if err := unix.Statx(unix.AT_FDCWD, path, unix.AT_SYMLINK_NOFOLLOW, mask, &stx); err != nil {
		return
	}
	if stx.Mask&unix.STATX_BTIME != 0 {
		e.Created = filetime(time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)))
		e.Known |= FieldCreated
	}
	if stx.Mask&unix.STATX_ATIME != 0 {
		e.Accessed = filetime(time.Unix(stx.Atime.Sec, int64(stx.Atime.Nsec)))
		e.Known |= FieldAccessed
	}
}
