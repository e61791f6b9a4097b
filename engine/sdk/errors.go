package sdk

import "errors"

var (
	// ErrUnsupportedPlatform is returned by Open outside Windows.
	ErrUnsupportedPlatform = errors.New("everything sdk is only available on windows")

	// ErrLibraryUnavailable indicates the SDK library or one of its entry
	// points could not be loaded.
	ErrLibraryUnavailable = errors.New("everything sdk library unavailable")
)
