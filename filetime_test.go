package seek

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const unixEpochFiletime = 116444736000000000

func TestFiletimeToTime(t *testing.T) {
	t.Run("unix epoch", func(t *testing.T) {
		assert.Equal(t, time.Unix(0, 0).UTC(), FiletimeToTime(unixEpochFiletime))
	})

	t.Run("zero is 1601", func(t *testing.T) {
		assert.Equal(t, time.Date(1601, 1, 1, 0, 0, 0, 0, time.UTC), FiletimeToTime(0))
	})

	t.Run("before unix epoch", func(t *testing.T) {
		got := FiletimeToTime(unixEpochFiletime - 10_000_000)
		assert.Equal(t, time.Date(1969, 12, 31, 23, 59, 59, 0, time.UTC), got)
		assert.True(t, got.Before(time.Unix(0, 0)))
	})

	t.Run("sub-second ticks", func(t *testing.T) {
		got := FiletimeToTime(unixEpochFiletime + 15)
		assert.Equal(t, 1500, got.Nanosecond())
	})

	t.Run("maximum does not wrap", func(t *testing.T) {
		got := FiletimeToTime(math.MaxUint64)
		assert.Greater(t, got.Year(), 60000)
	})

	t.Run("result is UTC", func(t *testing.T) {
		assert.Equal(t, time.UTC, FiletimeToTime(unixEpochFiletime).Location())
	})
}

func TestTimeToFiletime(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, ft := range []uint64{0, 1, 9_999_999, unixEpochFiletime - 1, unixEpochFiletime, 133_000_000_000_000_000, math.MaxUint64} {
			assert.Equal(t, ft, TimeToFiletime(FiletimeToTime(ft)), "filetime %d", ft)
		}
	})

	t.Run("before 1601 saturates to zero", func(t *testing.T) {
		assert.Equal(t, uint64(0), TimeToFiletime(time.Date(1500, 1, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("far future saturates", func(t *testing.T) {
		assert.Equal(t, uint64(math.MaxUint64), TimeToFiletime(time.Date(70000, 1, 1, 0, 0, 0, 0, time.UTC)))
	})
}
