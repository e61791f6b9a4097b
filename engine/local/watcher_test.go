package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	watchTimeout = 5 * time.Second
	watchTick    = 20 * time.Millisecond
)

func startWatcher(t *testing.T, index *Index, root string, opts ...Option) {
	t.Helper()
	w, err := NewWatcher(index, opts...)
	require.NoError(t, err)
	require.NoError(t, w.Add(root))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
		assert.NoError(t, w.Close())
	})
}

func indexed(index *Index, path string) func() bool {
	return func() bool {
		_, err := index.Get(context.Background(), path)
		return err == nil
	}
}

func gone(index *Index, path string) func() bool {
	return func() bool {
		_, err := index.Get(context.Background(), path)
		return err != nil
	}
}

func TestNewWatcher_IndexRequired(t *testing.T) {
	_, err := NewWatcher(nil)
	assert.ErrorIs(t, err, ErrIndexRequired)
}

func TestWatcher_FollowsChanges(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	index := newTestIndex(t)
	startWatcher(t, index, root, WithExcludes("*.tmp"))

	file := filepath.Join(root, "new.txt")
	t.Run("create", func(t *testing.T) {
		require.NoError(t, os.WriteFile(file, []byte("hi"), 0644))
		require.Eventually(t, indexed(index, file), watchTimeout, watchTick)
	})

	t.Run("write", func(t *testing.T) {
		require.NoError(t, os.WriteFile(file, []byte("hello world"), 0644))
		require.Eventually(t, func() bool {
			e, err := index.Get(ctx, file)
			return err == nil && e.Size == int64(len("hello world"))
		}, watchTimeout, watchTick)
	})

	t.Run("new directory with contents", func(t *testing.T) {
		dir := filepath.Join(root, "dir")
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "inner"), 0755))
		nested := filepath.Join(dir, "inner", "nested.txt")
		require.NoError(t, os.WriteFile(nested, []byte("x"), 0644))

		require.Eventually(t, indexed(index, dir), watchTimeout, watchTick)
		require.Eventually(t, indexed(index, nested), watchTimeout, watchTick)

		roots, err := index.Roots(ctx)
		require.NoError(t, err)
		assert.Empty(t, roots)
	})

	t.Run("rename directory", func(t *testing.T) {
		from, to := filepath.Join(root, "dir"), filepath.Join(root, "moved")
		require.NoError(t, os.Rename(from, to))

		require.Eventually(t, gone(index, filepath.Join(from, "inner", "nested.txt")), watchTimeout, watchTick)
		require.Eventually(t, indexed(index, filepath.Join(to, "inner", "nested.txt")), watchTimeout, watchTick)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, os.Remove(file))
		require.Eventually(t, gone(index, file), watchTimeout, watchTick)
	})

	t.Run("excluded paths are ignored", func(t *testing.T) {
		scratch := filepath.Join(root, "scratch.tmp")
		marker := filepath.Join(root, "marker")
		require.NoError(t, os.WriteFile(scratch, nil, 0644))
		require.NoError(t, os.WriteFile(marker, nil, 0644))

		// Events arrive in order, so once the marker is in, the scratch file was handled.
		require.Eventually(t, indexed(index, marker), watchTimeout, watchTick)
		_, err := index.Get(ctx, scratch)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
