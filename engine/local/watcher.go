package local

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher keeps an Index current by following filesystem notifications for
// a set of directory trees.
type Watcher struct {
	index   *Index
	indexer *Indexer
	opts    options
	fsw     *fsnotify.Watcher
}

// NewWatcher creates a watcher that updates index. Call Add to choose the
// trees to follow, then Run.
func NewWatcher(index *Index, opts ...Option) (*Watcher, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	// New directories are indexed on their own; nothing around them is stale
	// and they are not roots.
	indexerOpts := append(append([]Option{}, opts...), WithPrune(false), WithProgress(nil, 0), withoutRootRecords())
	indexer, err := NewIndexer(index, indexerOpts...)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		index:   index,
		indexer: indexer,
		opts:    o,
		fsw:     fsw,
	}, nil
}

// Add starts watching every directory under the roots.
func (w *Watcher) Add(roots ...string) error {
	for _, root := range roots {
		p, err := canonicalRoot(root)
		if err != nil {
			return err
		}
		if err := w.addTree(p); err != nil {
			return err
		}
	}
	return nil
}

// addTree watches dir and every directory below it that is not excluded.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			w.opts.logger.Warn("not watching unreadable directory", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.opts.excluded(path) {
			return fs.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.opts.logger.Warn("unable to watch directory", "path", path, "err", err)
		}
		return nil
	})
}

// Run applies notifications to the index until ctx is done or the watcher
// is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.opts.logger.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	logger := w.opts.logger
	if w.opts.excluded(ev.Name) {
		return
	}

	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		n, err := w.index.DeleteTree(ctx, ev.Name)
		if err != nil {
			logger.Error("unable to drop removed path", "path", ev.Name, "err", err)
			return
		}
		logger.Debug("dropped removed path", "path", ev.Name, "entries", n)
		return
	}

	info, err := os.Lstat(ev.Name)
	if errors.Is(err, fs.ErrNotExist) {
		// Gone before we got to it; a removal event follows or already passed.
		if _, err := w.index.DeleteTree(ctx, ev.Name); err != nil {
			logger.Error("unable to drop vanished path", "path", ev.Name, "err", err)
		}
		return
	}
	if err != nil {
		logger.Warn("unable to stat changed path", "path", ev.Name, "err", err)
		return
	}

	if info.IsDir() && ev.Has(fsnotify.Create) {
		if err := w.addTree(ev.Name); err != nil {
			logger.Warn("unable to watch new directory", "path", ev.Name, "err", err)
		}
		if _, err := w.indexer.Index(ctx, ev.Name); err != nil {
			logger.Error("unable to index new directory", "path", ev.Name, "err", err)
		}
		return
	}

	if err := w.index.Put(ctx, entryFromInfo(ev.Name, info)); err != nil {
		logger.Error("unable to update path", "path", ev.Name, "err", err)
		return
	}
	logger.Debug("updated path", "path", ev.Name, "op", ev.Op.String())
}

// Close stops watching. Run returns once its current event is handled.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
