package local

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Index stores file entries in a Backend. Each entry is kept under a
// fixed-width primary key, with a path index for lookups and subtree scans.
// Index is safe for concurrent use.
type Index struct {
	backend *Backend
	logger  *slog.Logger
}

// NewIndex creates an index over backend.
func NewIndex(backend *Backend) (*Index, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &Index{
		backend: backend,
		logger:  backend.logger,
	}, nil
}

// Put adds or replaces the entry of e.Path.
func (x *Index) Put(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return x.backend.Update(func(tx *badger.Txn) error {
		return putEntry(tx, e)
	})
}

func putEntry(tx *badger.Txn, e Entry) error {
	id := makeEntryKey(pathID(e.Path))
	if err := tx.Set(id, MarshalEntry(e)); err != nil {
		return err
	}
	return tx.Set(makePathKey(e.Path), id)
}

// PutBatch adds or replaces many entries. The batch is not atomic: on error
// some entries may already be stored.
func (x *Index) PutBatch(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	wb := x.backend.NewWriteBatch()
	defer wb.Cancel()

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		id := makeEntryKey(pathID(e.Path))
		if err := wb.Set(id, MarshalEntry(e)); err != nil {
			return err
		}
		if err := wb.Set(makePathKey(e.Path), id); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Get returns the entry of path.
func (x *Index) Get(ctx context.Context, path string) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	var e Entry
	err := x.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEntryKey(pathID(path)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			e, err = UnmarshalEntry(val)
			return err
		})
	}, false)
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Delete removes the entry of path. Deleting a missing entry is not an error.
func (x *Index) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return x.backend.Update(func(tx *badger.Txn) error {
		if err := tx.Delete(makeEntryKey(pathID(path))); err != nil {
			return err
		}
		return tx.Delete(makePathKey(path))
	})
}

// DeleteTree removes root and every entry below it, returning how many
// entries were removed.
func (x *Index) DeleteTree(ctx context.Context, root string) (int, error) {
	var paths []string
	err := x.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makePathKey(root)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := pathFromKey(iter.Item().Key())
			if within(path, root) {
				paths = append(paths, path)
			}
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	if err := x.deletePaths(ctx, paths); err != nil {
		return 0, err
	}
	return len(paths), nil
}

func (x *Index) deletePaths(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	wb := x.backend.NewWriteBatch()
	defer wb.Cancel()
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := wb.Delete(makeEntryKey(pathID(path))); err != nil {
			return err
		}
		if err := wb.Delete(makePathKey(path)); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// within reports whether path is root or lies below it.
func within(path, root string) bool {
	if path == root {
		return true
	}
	if !strings.HasPrefix(path, root) {
		return false
	}
	if strings.HasSuffix(root, string(os.PathSeparator)) {
		return true
	}
	return path[len(root)] == os.PathSeparator
}

// ForEach calls fn for every entry in primary key order. Returning an error
// from fn stops the iteration and returns that error.
func (x *Index) ForEach(ctx context.Context, fn func(Entry) error) error {
	return x.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e Entry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				e, err = UnmarshalEntry(val)
				return err
			})
			if err != nil {
				x.logger.Warn("skipping unreadable index entry", "key", iter.Item().KeyCopy(nil), "err", err)
				continue
			}
			if err := fn(e); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// Count returns the number of entries.
func (x *Index) Count(ctx context.Context) (int, error) {
	n := 0
	err := x.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(pathPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			n++
		}
		return nil
	}, false)
	return n, err
}

// Reset removes every entry and root record.
func (x *Index) Reset(ctx context.Context) error {
	var (
		paths    []string
		rootKeys [][]byte
	)
	err := x.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(pathPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			paths = append(paths, pathFromKey(iter.Item().Key()))
		}

		rootOpts := badger.DefaultIteratorOptions
		rootOpts.PrefetchValues = false
		rootOpts.Prefix = []byte(rootPrefix)
		roots := tx.NewIterator(rootOpts)
		defer roots.Close()
		for roots.Rewind(); roots.Valid(); roots.Next() {
			rootKeys = append(rootKeys, roots.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil {
		return err
	}
	if err := x.deletePaths(ctx, paths); err != nil {
		return err
	}
	if len(rootKeys) == 0 {
		return nil
	}
	return x.backend.Update(func(tx *badger.Txn) error {
		for _, key := range rootKeys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}
