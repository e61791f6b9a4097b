package engine

import (
	"math"
	"time"
)

const (
	// filetimeUnixOffset is the number of seconds between 1601-01-01 and 1970-01-01.
	filetimeUnixOffset = 11644473600

	filetimeTicksPerSecond = 10_000_000
	nanosPerFiletimeTick   = 100
)

// FiletimeToTime converts a FILETIME (100-nanosecond intervals since
// 1601-01-01 UTC) to a UTC time. Every uint64 value maps to a representable
// time.
func FiletimeToTime(ft uint64) time.Time {
	secs := int64(ft / filetimeTicksPerSecond)
	nanos := int64(ft%filetimeTicksPerSecond) * nanosPerFiletimeTick
	return time.Unix(secs-filetimeUnixOffset, nanos).UTC()
}

// TimeToFiletime converts t to a FILETIME. Times before 1601 saturate to 0
// and times past the FILETIME range saturate to math.MaxUint64.
func TimeToFiletime(t time.Time) uint64 {
	secs := t.Unix()
	if secs < -filetimeUnixOffset {
		return 0
	}
	if secs > math.MaxInt64-filetimeUnixOffset {
		return math.MaxUint64
	}
	since := uint64(secs + filetimeUnixOffset)
	if since > math.MaxUint64/filetimeTicksPerSecond {
		return math.MaxUint64
	}
	ticks := since * filetimeTicksPerSecond
	sub := uint64(t.Nanosecond() / nanosPerFiletimeTick)
	if ticks > math.MaxUint64-sub {
		return math.MaxUint64
	}
	return ticks + sub
}
