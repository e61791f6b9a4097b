package seek

import (
	"time"

	"github.com/poiesic/seek/engine"
)

// FiletimeToTime converts a FILETIME (100-nanosecond intervals since
// 1601-01-01 UTC) to a UTC time. Values before the Unix epoch produce times
// before 1970; every uint64 value maps to a representable time.
func FiletimeToTime(ft uint64) time.Time {
	return engine.FiletimeToTime(ft)
}

// TimeToFiletime converts t to a FILETIME. Times before 1601 saturate to 0
// and times past the FILETIME range saturate to math.MaxUint64.
func TimeToFiletime(t time.Time) uint64 {
	return engine.TimeToFiletime(t)
}
