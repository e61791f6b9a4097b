package seek

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/seek/engine"
	"github.com/poiesic/seek/engine/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestExecutor(t *testing.T, eng engine.Engine, opts ...Option) (*Executor, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	x, err := NewExecutor(eng, append([]Option{WithLogger(logger), WithVerification(VerifyLenient)}, opts...)...)
	require.NoError(t, err)
	return x, &logs
}

func files(n int) []mock.Result {
	results := make([]mock.Result, n)
	for i := range results {
		results[i] = mock.File(fmt.Sprintf(`C:\src\file%03d.rs`, i)).
			WithSize(int64(i * 10)).
			WithTimes(unixEpochFiletime, unixEpochFiletime+10_000_000, unixEpochFiletime-10_000_000).
			WithAttributes(engine.AttributeArchive)
	}
	return results
}

func TestNewExecutor(t *testing.T) {
	t.Run("engine required", func(t *testing.T) {
		x, err := NewExecutor(nil)
		assert.ErrorIs(t, err, ErrEngineRequired)
		assert.Nil(t, x)
	})

	t.Run("invalid verification", func(t *testing.T) {
		_, err := NewExecutor(mock.NewEngine(), WithVerification(Verification(42)))
		assert.ErrorIs(t, err, ErrUnknownVerification)
	})

	t.Run("nil options fall back to defaults", func(t *testing.T) {
		x, err := NewExecutor(mock.NewEngine(), WithLogger(nil), WithMonitor(nil))
		require.NoError(t, err)
		assert.Same(t, slog.Default(), x.logger)
		assert.IsType(t, &noopMonitor{}, x.monitor)
		assert.Equal(t, DefaultVerification(), x.verification)
	})

	t.Run("executors share the lock of their engine", func(t *testing.T) {
		eng := mock.NewEngine()
		a, err := NewExecutor(eng)
		require.NoError(t, err)
		b, err := NewExecutor(eng)
		require.NoError(t, err)
		c, err := NewExecutor(mock.NewEngine())
		require.NoError(t, err)
		assert.Same(t, a.lock, b.lock)
		assert.NotSame(t, a.lock, c.lock)
	})
}

func TestExecutor_ConfiguresEngine(t *testing.T) {
	eng := mock.NewEngine(files(3)...)
	x, _ := newTestExecutor(t, eng)

	s := NewRegexSearch(`file\d+`).
		MatchCase(true).
		MatchPath(true).
		MatchWholeWord(true).
		SortBy(SortSize, Descending).
		RequestMetadata(MetadataSize | MetadataDateModified)

	_, err := x.QueryRange(s, Span(1, 3))
	require.NoError(t, err)

	cfg, ok := eng.LastExecuted()
	require.True(t, ok)
	assert.Equal(t, mock.Config{
		Pattern:        `file\d+`,
		Regex:          true,
		MatchCase:      true,
		MatchPath:      true,
		MatchWholeWord: true,
		Sort:           engine.SortSizeDescending,
		Flags:          engine.RequestFullPathAndFileName | engine.RequestSize | engine.RequestDateModified,
		Offset:         1,
		Max:            2,
	}, cfg)
}

func TestExecutor_WindowWithoutMetadata(t *testing.T) {
	eng := mock.NewEngine(files(250)...)
	x, _ := newTestExecutor(t, eng)

	items, err := x.QueryRange(NewSearch("*.rs"), Span(0, 100))
	require.NoError(t, err)
	require.Len(t, items, 100)

	for i, item := range items {
		assert.Equal(t, fmt.Sprintf(`C:\src\file%03d.rs`, i), item.Path)
		assert.Equal(t, File, item.Type)
		assert.Nil(t, item.Size)
		assert.Nil(t, item.DateCreated)
		assert.Nil(t, item.DateModified)
		assert.Nil(t, item.DateAccessed)
		assert.Nil(t, item.Attributes)
	}
}

func TestExecutor_SizeFailure(t *testing.T) {
	results := files(5)
	results[3].SizeErr = engine.ErrUnavailable
	eng := mock.NewEngine(results...)
	x, logs := newTestExecutor(t, eng)

	items, err := x.QueryAll(NewSearch("*.rs").RequestMetadata(MetadataSize))
	require.NoError(t, err)
	require.Len(t, items, 5)

	for i, item := range items {
		if i == 3 {
			assert.Nil(t, item.Size)
			continue
		}
		require.NotNil(t, item.Size, "item %d", i)
		assert.Equal(t, uint64(i*10), *item.Size)
	}
	assert.Contains(t, logs.String(), "metadata unavailable")
	assert.Contains(t, logs.String(), "index=3")
}

func TestExecutor_InvertedRange(t *testing.T) {
	eng := mock.NewEngine(files(300)...)
	x, _ := newTestExecutor(t, eng)

	items, err := x.QueryRange(NewSearch("*.rs"), Span(200, 100))
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Zero(t, eng.Calls(), "an empty range must not touch the engine")
}

func TestExecutor_ExecuteFailure(t *testing.T) {
	eng := mock.NewEngine(files(5)...)
	eng.ExecuteErr = fmt.Errorf("%w: unbalanced quote", engine.ErrPatternRejected)
	x, _ := newTestExecutor(t, eng)

	items, err := x.QueryAll(NewSearch(`"broken`))
	require.Error(t, err)
	assert.Nil(t, items)
	assert.ErrorIs(t, err, engine.ErrPatternRejected)

	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, `"broken`, qe.Pattern)
	assert.False(t, qe.Regex)

	// The lock was released: the next query runs normally.
	eng.ExecuteErr = nil
	items, err = x.QueryAll(NewSearch("*.rs"))
	require.NoError(t, err)
	assert.Len(t, items, 5)
	assert.False(t, x.Poisoned())
}

func TestExecutor_NativeErrorCode(t *testing.T) {
	eng := mock.NewEngine()
	eng.ExecuteErr = &engine.Error{Op: "query", Code: engine.ErrorIPC}
	x, _ := newTestExecutor(t, eng)

	_, err := x.QueryAll(NewSearch("a"))
	var ee *engine.Error
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, engine.ErrorIPC, ee.Code)
}

func TestExecutor_PartialPathFailure(t *testing.T) {
	const n = 10
	for failing := 0; failing < n; failing++ {
		t.Run(fmt.Sprintf("index %d", failing), func(t *testing.T) {
			results := files(n)
			results[failing] = results[failing].WithPathErr(&engine.Error{Op: "full path", Code: engine.ErrorInvalidCall})
			eng := mock.NewEngine(results...)
			x, logs := newTestExecutor(t, eng)

			items, err := x.QueryAll(NewSearch("*.rs").RequestMetadata(MetadataAll))
			require.NoError(t, err)
			require.Len(t, items, n-1)

			want := 0
			for _, item := range items {
				if want == failing {
					want++
				}
				assert.Equal(t, fmt.Sprintf(`C:\src\file%03d.rs`, want), item.Path)
				require.NotNil(t, item.Size)
				assert.Equal(t, uint64(want*10), *item.Size)
				want++
			}
			assert.Contains(t, logs.String(), fmt.Sprintf("index=%d", failing))
		})
	}
}

func TestExecutor_PartialMetadata(t *testing.T) {
	results := files(1)
	results[0].SizeErr = engine.ErrUnavailable
	eng := mock.NewEngine(results...)
	x, _ := newTestExecutor(t, eng)

	items, err := x.QueryAll(NewSearch("*.rs").RequestMetadata(MetadataSize | MetadataDateModified))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Size)
	require.NotNil(t, items[0].DateModified)
	assert.Equal(t, time.Unix(1, 0).UTC(), *items[0].DateModified)
	assert.Nil(t, items[0].DateCreated, "unrequested fields stay nil")
}

func TestExecutor_AllMetadata(t *testing.T) {
	eng := mock.NewEngine(files(1)...)
	x, _ := newTestExecutor(t, eng)

	items, err := x.QueryAll(NewSearch("*.rs").RequestMetadata(MetadataAll))
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	require.NotNil(t, item.Size)
	assert.Equal(t, uint64(0), *item.Size)
	require.NotNil(t, item.DateCreated)
	assert.Equal(t, time.Unix(0, 0).UTC(), *item.DateCreated)
	require.NotNil(t, item.DateAccessed)
	assert.Equal(t, time.Unix(-1, 0).UTC(), *item.DateAccessed)
	require.NotNil(t, item.Attributes)
	assert.Equal(t, engine.AttributeArchive, *item.Attributes)
}

func TestExecutor_NegativeSizeIsUnavailable(t *testing.T) {
	eng := mock.NewEngine(mock.File(`C:\odd`).WithSize(-1))
	x, logs := newTestExecutor(t, eng)

	items, err := x.QueryAll(NewSearch("odd").RequestMetadata(MetadataSize))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Size)
	assert.Contains(t, logs.String(), "negative size")
}

func TestExecutor_ItemTypes(t *testing.T) {
	eng := mock.NewEngine(mock.Volume(`C:\`), mock.Folder(`C:\dir`), mock.File(`C:\dir\a`))
	x, _ := newTestExecutor(t, eng)

	items, err := x.QueryAll(NewSearch(""))
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []ItemType{Volume, Folder, File}, []ItemType{items[0].Type, items[1].Type, items[2].Type})
}

func TestExecutor_LenientClassification(t *testing.T) {
	eng := mock.NewEngine(
		mock.File(`C:\a`),
		mock.File(`C:\both`).WithClass(engine.ClassFile|engine.ClassFolder),
		mock.File(`C:\none`).WithClass(0),
		mock.File(`C:\b`),
	)
	x, logs := newTestExecutor(t, eng)

	items, err := x.QueryAll(NewSearch(""))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, `C:\a`, items[0].Path)
	assert.Equal(t, `C:\b`, items[1].Path)
	assert.Equal(t, 2, strings.Count(logs.String(), "inconsistent classification"))
	assert.False(t, x.Poisoned())
}

func TestExecutor_StrictClassificationPoisons(t *testing.T) {
	eng := mock.NewEngine(mock.File(`C:\both`).WithClass(engine.ClassFile | engine.ClassVolume))
	x, _ := newTestExecutor(t, eng, WithVerification(VerifyStrict))

	assert.PanicsWithError(t,
		(&ConsistencyError{Index: 0, Classification: engine.ClassFile | engine.ClassVolume}).Error(),
		func() { _, _ = x.QueryAll(NewSearch("")) })
	assert.True(t, x.Poisoned())

	_, err := x.QueryAll(NewSearch(""))
	assert.ErrorIs(t, err, ErrLockPoisoned)

	other, err := NewExecutor(eng, WithVerification(VerifyLenient))
	require.NoError(t, err)
	_, err = other.QueryAll(NewSearch(""))
	assert.ErrorIs(t, err, ErrLockPoisoned, "poisoning is per engine, not per executor")
}

func TestExecutor_PanicPoisonsLock(t *testing.T) {
	eng := mock.NewEngine(files(1)...)
	eng.PanicOnExecute = "engine crashed"
	x, _ := newTestExecutor(t, eng)

	assert.PanicsWithValue(t, "engine crashed", func() { _, _ = x.QueryAll(NewSearch("a")) })
	assert.True(t, x.Poisoned())

	eng.PanicOnExecute = nil
	calls := eng.Calls()
	items, err := x.QueryAll(NewSearch("a"))
	assert.Nil(t, items)
	assert.ErrorIs(t, err, ErrLockPoisoned)
	assert.Equal(t, calls, eng.Calls(), "a poisoned engine is never touched again")

	unrelated, _ := newTestExecutor(t, mock.NewEngine(files(1)...))
	_, err = unrelated.QueryAll(NewSearch("a"))
	assert.NoError(t, err)
}

func TestReleaseEngine(t *testing.T) {
	eng := mock.NewEngine(files(2)...)
	eng.PanicOnExecute = "engine crashed"
	poisoned, _ := newTestExecutor(t, eng)
	assert.Panics(t, func() { _, _ = poisoned.QueryAll(NewSearch("a")) })
	require.True(t, poisoned.Poisoned())

	ReleaseEngine(eng)
	locksMu.Lock()
	_, registered := locks[eng]
	locksMu.Unlock()
	assert.False(t, registered)
	assert.True(t, poisoned.Poisoned(), "existing executors keep their lock")

	eng.PanicOnExecute = nil
	fresh, _ := newTestExecutor(t, eng)
	items, err := fresh.QueryAll(NewSearch("a"))
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestExecutor_GoexitPoisonsLock(t *testing.T) {
	eng := mock.NewEngine(files(1)...)
	eng.ResultsFunc = func(mock.Config) []mock.Result {
		runtime.Goexit()
		return nil
	}
	x, _ := newTestExecutor(t, eng)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = x.QueryAll(NewSearch("a"))
	}()
	<-done
	assert.True(t, x.Poisoned())

	eng.ResultsFunc = nil
	items, err := x.QueryAll(NewSearch("a"))
	assert.Nil(t, items)
	assert.ErrorIs(t, err, ErrLockPoisoned)
}

func TestExecutor_GoexitInMonitorPoisonsLock(t *testing.T) {
	eng := mock.NewEngine(files(1)...)
	x, err := NewExecutor(eng, WithMonitor(&exitingMonitor{}))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = x.QueryAll(NewSearch("a"))
	}()
	<-done
	assert.True(t, x.Poisoned())
}

// exitingMonitor ends the querying goroutine once the engine has run.
type exitingMonitor struct {
	noopMonitor
}

func (exitingMonitor) AfterExecute(uint32) {
	runtime.Goexit()
}

func TestExecutor_RangeBeyondResults(t *testing.T) {
	eng := mock.NewEngine(files(5)...)
	x, _ := newTestExecutor(t, eng)

	items, err := x.QueryRange(NewSearch("*.rs"), From(3))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, `C:\src\file003.rs`, items[0].Path)

	items, err = x.QueryRange(NewSearch("*.rs"), Span(10, 20))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExecutor_PreservesEngineOrder(t *testing.T) {
	eng := mock.NewEngine(mock.File(`C:\z`), mock.File(`C:\a`), mock.File(`C:\m`))
	x, _ := newTestExecutor(t, eng)

	items, err := x.QueryAll(NewSearch("").SortBy(SortPath, Ascending))
	require.NoError(t, err)
	paths := make([]string, len(items))
	for i, item := range items {
		paths[i] = item.Path
	}
	assert.Equal(t, []string{`C:\z`, `C:\a`, `C:\m`}, paths)
}

func TestExecutor_ConcurrentQueriesDoNotInterleave(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	eng := mock.NewEngine()
	eng.ExecuteDelay = 200 * time.Microsecond
	eng.ResultsFunc = func(cfg mock.Config) []mock.Result {
		results := make([]mock.Result, 4)
		for i := range results {
			results[i] = mock.File(fmt.Sprintf("%s/%d/%d", cfg.Pattern, cfg.Sort, i))
		}
		return results
	}

	const workers = 8
	const queries = 25

	var wg sync.WaitGroup
	errs := make(chan error, workers*queries)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			// Each worker gets its own executor; they still share the engine lock.
			x, err := NewExecutor(eng, WithVerification(VerifyLenient))
			if err != nil {
				errs <- err
				return
			}
			for q := 0; q < queries; q++ {
				pattern := fmt.Sprintf("w%d-q%d", w, q)
				order := Ascending
				if q%2 == 1 {
					order = Descending
				}
				s := NewSearch(pattern).SortBy(SortKey(w%len(sortKeyNames)), order)
				items, err := x.QueryAll(s)
				if err != nil {
					errs <- err
					continue
				}
				prefix := fmt.Sprintf("%s/%d/", pattern, nativeSort(s.Sort()))
				if len(items) != 4 {
					errs <- fmt.Errorf("%s: got %d items", pattern, len(items))
				}
				for _, item := range items {
					if !strings.HasPrefix(item.Path, prefix) {
						errs <- fmt.Errorf("%s observed foreign result %s", pattern, item.Path)
					}
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Zero(t, eng.Overlaps())
	assert.Len(t, eng.Executed(), workers*queries)
}

type recordingMonitor struct {
	mu          sync.Mutex
	locked      int
	starts      [][2]uint32
	executed    []uint32
	skipped     []uint32
	unavailable []Metadata
	finished    int
	lastErr     error
	lastItems   []Item
}

func (m *recordingMonitor) LockAcquired(_ uint64, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locked++
}

func (m *recordingMonitor) Start(_ uint64, offset, count uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts = append(m.starts, [2]uint32{offset, count})
}

func (m *recordingMonitor) AfterExecute(n uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.executed = append(m.executed, n)
}

func (m *recordingMonitor) ItemSkipped(index uint32, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipped = append(m.skipped, index)
}

func (m *recordingMonitor) MetadataUnavailable(_ uint32, _ string, kind Metadata, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = append(m.unavailable, kind)
}

func (m *recordingMonitor) Finish(items []Item, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished++
	m.lastItems = items
	m.lastErr = err
}

func TestExecutor_Monitor(t *testing.T) {
	results := files(4)
	results[1] = results[1].WithPathErr(engine.ErrUnavailable)
	results[2].ModifiedErr = engine.ErrUnavailable
	eng := mock.NewEngine(results...)
	monitor := &recordingMonitor{}
	x, _ := newTestExecutor(t, eng, WithMonitor(monitor))

	items, err := x.QueryRange(NewSearch("*.rs").RequestMetadata(MetadataDateModified), To(10))
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, 1, monitor.locked)
	assert.Equal(t, [][2]uint32{{0, 10}}, monitor.starts)
	assert.Equal(t, []uint32{4}, monitor.executed)
	assert.Equal(t, []uint32{1}, monitor.skipped)
	assert.Equal(t, []Metadata{MetadataDateModified}, monitor.unavailable)
	assert.Equal(t, 1, monitor.finished)
	assert.Equal(t, items, monitor.lastItems)
	assert.NoError(t, monitor.lastErr)

	eng.ExecuteErr = errors.New("boom")
	_, err = x.QueryAll(NewSearch("x"))
	require.Error(t, err)
	assert.Equal(t, 2, monitor.finished)
	assert.Equal(t, err, monitor.lastErr)
}
