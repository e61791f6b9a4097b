//go:build !linux && !windows

package local

import "io/fs"

// statPlatform has nothing beyond the portable fields on this platform, so
// creation and access times stay unknown.
func statPlatform(_ string, _ fs.FileInfo, _ *Entry) {}
