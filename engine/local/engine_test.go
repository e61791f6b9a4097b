package local

import (
	"context"
	"testing"

	"github.com/poiesic/seek/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, entries ...Entry) *Engine {
	t.Helper()
	index := newTestIndex(t)
	require.NoError(t, index.PutBatch(context.Background(), entries))
	eng, err := NewEngine(index)
	require.NoError(t, err)
	return eng
}

func TestNewEngine_IndexRequired(t *testing.T) {
	eng, err := NewEngine(nil)
	assert.ErrorIs(t, err, ErrIndexRequired)
	assert.Nil(t, eng)
}

func TestEngine_ExecuteWindow(t *testing.T) {
	eng := newTestEngine(t,
		fileEntry("/src/a.rs", 1),
		fileEntry("/src/b.rs", 2),
		fileEntry("/src/c.rs", 3),
		fileEntry("/src/d.go", 4),
		folderEntry("/src"),
	)

	eng.SetSearch("*.rs", false)
	eng.SetSort(engine.SortNameAscending)
	eng.SetRequestFlags(engine.RequestFullPathAndFileName | engine.RequestSize)
	eng.SetRange(1, 5)
	require.NoError(t, eng.Execute())

	require.Equal(t, uint32(2), eng.ResultCount())
	assert.Equal(t, engine.ClassFile, eng.ResultType(0))

	path, err := eng.ResultPath(0)
	require.NoError(t, err)
	assert.Equal(t, "/src/b.rs", filepathSlash(path))

	size, err := eng.ResultSize(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)

	assert.Equal(t, engine.Classification(0), eng.ResultType(2))
	_, err = eng.ResultPath(2)
	assert.ErrorIs(t, err, engine.ErrInvalidIndex)
}

func TestEngine_SortDescending(t *testing.T) {
	eng := newTestEngine(t, fileEntry("/a", 1), fileEntry("/b", 3), fileEntry("/c", 2))

	eng.SetSearch("", false)
	eng.SetSort(engine.SortSizeDescending)
	eng.SetRequestFlags(engine.RequestFullPathAndFileName)
	eng.SetRange(0, 10)
	require.NoError(t, eng.Execute())

	var paths []string
	for i := uint32(0); i < eng.ResultCount(); i++ {
		p, err := eng.ResultPath(i)
		require.NoError(t, err)
		paths = append(paths, filepathSlash(p))
	}
	assert.Equal(t, []string{"/b", "/c", "/a"}, paths)
}

func TestEngine_ResultErrors(t *testing.T) {
	eng := newTestEngine(t, folderEntry("/dir"))

	t.Run("before execute", func(t *testing.T) {
		_, err := eng.ResultPath(0)
		assert.ErrorIs(t, err, engine.ErrNotExecuted)
		assert.Zero(t, eng.ResultCount())
	})

	eng.SetSearch("dir", false)
	eng.SetRequestFlags(engine.RequestFullPathAndFileName | engine.RequestSize | engine.RequestAttributes)
	eng.SetRange(0, 1)
	require.NoError(t, eng.Execute())

	t.Run("unknown field is unavailable", func(t *testing.T) {
		_, err := eng.ResultSize(0)
		assert.ErrorIs(t, err, engine.ErrUnavailable)
	})

	t.Run("known field", func(t *testing.T) {
		attrs, err := eng.ResultAttributes(0)
		require.NoError(t, err)
		assert.Equal(t, engine.AttributeDirectory, attrs)
	})

	t.Run("unrequested field", func(t *testing.T) {
		_, err := eng.ResultDateModified(0)
		var ee *engine.Error
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, engine.ErrorInvalidRequest, ee.Code)
	})
}

func TestEngine_RejectedPattern(t *testing.T) {
	eng := newTestEngine(t, fileEntry("/a", 1))

	eng.SetSearch("(unclosed", true)
	eng.SetRange(0, 10)
	err := eng.Execute()
	assert.ErrorIs(t, err, engine.ErrPatternRejected)
	assert.Zero(t, eng.ResultCount())
}

func TestEngine_FlagsReachMatcher(t *testing.T) {
	eng := newTestEngine(t, fileEntry("/Docs/Report.txt", 1), fileEntry("/docs/report-old.txt", 2))

	run := func() uint32 {
		eng.SetRange(0, 10)
		eng.SetRequestFlags(engine.RequestFullPathAndFileName)
		require.NoError(t, eng.Execute())
		return eng.ResultCount()
	}

	eng.SetSearch("report", false)
	assert.Equal(t, uint32(2), run())

	eng.SetMatchCase(true)
	assert.Equal(t, uint32(1), run())
	eng.SetMatchCase(false)

	eng.SetSearch("report.txt", false)
	eng.SetMatchWholeWord(true)
	assert.Equal(t, uint32(1), run())
	eng.SetMatchWholeWord(false)

	eng.SetSearch("docs", false)
	assert.Equal(t, uint32(0), run())
	eng.SetMatchPath(true)
	assert.Equal(t, uint32(2), run())
}
