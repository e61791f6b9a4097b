//go:build !windows

package sdk

import "github.com/poiesic/seek/engine"

// Open returns the process-wide Everything handle.
func Open() (engine.Engine, error) {
	return nil, ErrUnsupportedPlatform
}
