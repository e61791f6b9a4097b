package seek

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/seek/engine"
	"github.com/poiesic/seek/engine/local"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLocalIndex(t *testing.T) {
	t.Run("create new index", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "index")
		li, err := OpenLocalIndex(context.Background(), dir)
		require.NoError(t, err)
		require.NotNil(t, li)

		assert.NotNil(t, li.Executor())
		assert.NotNil(t, li.Index())

		require.NoError(t, li.Close())
		locksMu.Lock()
		_, registered := locks[li.engine]
		locksMu.Unlock()
		assert.False(t, registered)
	})

	t.Run("error with file path", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(file, []byte("test"), 0644))

		li, err := OpenLocalIndex(context.Background(), file)
		assert.ErrorIs(t, err, local.ErrNotDirectory)
		assert.Nil(t, li)
	})

	t.Run("invalid executor option", func(t *testing.T) {
		li, err := OpenLocalIndex(context.Background(), "", WithInMemory(),
			WithExecutorOptions(WithVerification(Verification(7))))
		assert.ErrorIs(t, err, ErrUnknownVerification)
		assert.Nil(t, li)
	})
}

func TestLocalIndex_IndexAndQuery(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	for name, body := range map[string]string{
		"main.go":        "package main",
		"util/strings.go": "package util",
		"util/notes.txt":  "notes",
		"vendor/dep.go":   "package dep",
	} {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}

	li, err := OpenLocalIndex(ctx, "", WithInMemory(),
		WithLocalOptions(local.WithExcludes("vendor")),
		WithExecutorOptions(WithVerification(VerifyStrict)))
	require.NoError(t, err)
	defer li.Close()

	indexer, err := li.NewIndexer(local.WithWorkers(2))
	require.NoError(t, err)
	stats, err := indexer.Index(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Indexed) // root, main.go, util, util/strings.go, util/notes.txt

	x := li.Executor()

	t.Run("wildcard with metadata", func(t *testing.T) {
		items, err := x.QueryAll(NewSearch("*.go").
			RequestMetadata(MetadataSize | MetadataDateModified).
			SortBy(SortName, Descending))
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, filepath.Join(root, "util", "strings.go"), items[0].Path)
		assert.Equal(t, filepath.Join(root, "main.go"), items[1].Path)
		for _, item := range items {
			assert.Equal(t, File, item.Type)
			require.NotNil(t, item.Size)
			require.NotNil(t, item.DateModified)
			assert.Nil(t, item.DateCreated)
		}
		assert.Equal(t, uint64(len("package main")), *items[1].Size)
	})

	t.Run("folder sizes are unavailable", func(t *testing.T) {
		items, err := x.QueryAll(NewSearch("util").MatchWholeWord(true).RequestMetadata(MetadataSize | MetadataAttributes))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, Folder, items[0].Type)
		assert.Nil(t, items[0].Size)
		require.NotNil(t, items[0].Attributes)
		assert.NotZero(t, *items[0].Attributes&engine.AttributeDirectory)
	})

	t.Run("range", func(t *testing.T) {
		all, err := x.QueryAll(NewSearch("").SortBy(SortPath, Ascending))
		require.NoError(t, err)
		require.Len(t, all, 5)

		page, err := x.QueryRange(NewSearch("").SortBy(SortPath, Ascending), Span(1, 3))
		require.NoError(t, err)
		assert.Equal(t, all[1:3], page)
	})

	t.Run("rejected regex", func(t *testing.T) {
		_, err := x.QueryAll(NewRegexSearch("(unclosed"))
		assert.ErrorIs(t, err, engine.ErrPatternRejected)
		var qe *QueryError
		require.ErrorAs(t, err, &qe)
		assert.True(t, qe.Regex)
	})

	t.Run("excluded tree is absent", func(t *testing.T) {
		items, err := x.QueryAll(NewSearch("dep"))
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
