package local

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/panjf2000/ants/v2"
)

// Stats summarizes one indexing run.
type Stats struct {
	Indexed int
	Skipped int
	Pruned  int
	Elapsed time.Duration
}

// Indexer walks directory trees and records every file and folder in an
// Index. Entries are stat'ed concurrently and written in batches.
type Indexer struct {
	index *Index
	opts  options
}

// NewIndexer creates an indexer writing to index.
func NewIndexer(index *Index, opts ...Option) (*Indexer, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Indexer{index: index, opts: o}, nil
}

// Index walks every root and stores what it finds. Unreadable entries are
// logged and skipped. With pruning enabled, entries under the roots that no
// longer exist are removed afterwards.
func (ix *Indexer) Index(ctx context.Context, roots ...string) (Stats, error) {
	started := time.Now()
	logger := ix.opts.logger

	abs := make([]string, 0, len(roots))
	for _, root := range roots {
		p, err := canonicalRoot(root)
		if err != nil {
			return Stats{}, err
		}
		abs = append(abs, p)
	}

	pool, err := ants.NewPool(ix.opts.workers, ants.WithPanicHandler(func(v any) {
		logger.Error("stat worker panicked", "panic", v)
	}))
	if err != nil {
		return Stats{}, err
	}
	defer pool.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var tracker *ProgressTracker
	if ix.opts.progress != nil {
		tracker = NewProgressTracker(ix.opts.progress, ix.opts.reportInterval)
		tracker.Start()
		defer tracker.Finish()
	}

	var (
		stats    Stats
		skipped  atomic.Int64
		seen     = make(map[string]struct{})
		perRoot  = make([]int, len(abs))
		writeErr error
		entries  = make(chan Entry, ix.opts.batchSize)
		written  = make(chan struct{})
	)

	// Single writer: batches entries and records what was seen for pruning.
	go func() {
		defer close(written)
		batch := make([]Entry, 0, ix.opts.batchSize)
		flush := func() {
			if len(batch) == 0 || writeErr != nil {
				batch = batch[:0]
				return
			}
			if err := ix.index.PutBatch(ctx, batch); err != nil {
				writeErr = err
				cancel()
			} else {
				stats.Indexed += len(batch)
				if tracker != nil {
					tracker.Increment(len(batch))
				}
			}
			batch = batch[:0]
		}
		for e := range entries {
			if ix.opts.prune {
				seen[e.Path] = struct{}{}
			}
			for i, root := range abs {
				if within(e.Path, root) {
					perRoot[i]++
					break
				}
			}
			batch = append(batch, e)
			if len(batch) >= ix.opts.batchSize {
				flush()
			}
		}
		flush()
	}()

	var wg sync.WaitGroup
	walkErr := func() error {
		for _, root := range abs {
			err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				if err != nil {
					if path == root {
						return err
					}
					logger.Warn("skipping unreadable path", "path", path, "err", err)
					skipped.Add(1)
					if d != nil && d.IsDir() {
						return fs.SkipDir
					}
					return nil
				}
				if path != root && ix.opts.excluded(path) {
					if d.IsDir() {
						return fs.SkipDir
					}
					return nil
				}

				wg.Add(1)
				submitErr := pool.Submit(func() {
					defer wg.Done()
					info, err := d.Info()
					if err != nil {
						logger.Warn("skipping vanished path", "path", path, "err", err)
						skipped.Add(1)
						return
					}
					select {
					case entries <- entryFromInfo(path, info):
					case <-ctx.Done():
					}
				})
				if submitErr != nil {
					wg.Done()
					return submitErr
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}()

	wg.Wait()
	close(entries)
	<-written

	stats.Skipped = int(skipped.Load())
	if writeErr != nil {
		return stats, fmt.Errorf("write index: %w", writeErr)
	}
	if walkErr != nil {
		return stats, walkErr
	}

	if ix.opts.prune {
		pruned, err := ix.prune(ctx, abs, seen)
		stats.Pruned = pruned
		if err != nil {
			return stats, fmt.Errorf("prune index: %w", err)
		}
	}

	if ix.opts.recordRoots {
		now := time.Now()
		for i, root := range abs {
			if err := ix.index.SaveRoot(ctx, Root{Path: root, IndexedAt: now, Entries: perRoot[i]}); err != nil {
				return stats, fmt.Errorf("record root: %w", err)
			}
		}
	}

	stats.Elapsed = time.Since(started)
	logger.Info("indexing complete",
		"roots", len(abs), "indexed", stats.Indexed, "skipped", stats.Skipped,
		"pruned", stats.Pruned, "elapsed", stats.Elapsed)
	return stats, nil
}

// prune removes entries below roots that were not seen by the last walk.
func (ix *Indexer) prune(ctx context.Context, roots []string, seen map[string]struct{}) (int, error) {
	var stale []string
	err := ix.index.ForEach(ctx, func(e Entry) error {
		if _, ok := seen[e.Path]; ok {
			return nil
		}
		for _, root := range roots {
			if within(e.Path, root) {
				stale = append(stale, e.Path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err := ix.index.deletePaths(ctx, stale); err != nil {
		return 0, err
	}
	return len(stale), nil
}

// canonicalRoot returns the absolute, cleaned form of root and checks that
// it is a directory.
func canonicalRoot(root string) (string, error) {
	p, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(p)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, p)
	}
	return p, nil
}

// excluded reports whether path matches an exclude glob. Globs without a
// separator are matched against the name; the rest against the full path.
func (o options) excluded(path string) bool {
	if len(o.excludes) == 0 {
		return false
	}
	name := filepath.Base(path)
	full := strings.TrimPrefix(filepath.ToSlash(path), "/")
	for _, glob := range o.excludes {
		subject := name
		if strings.Contains(glob, "/") {
			subject = full
			glob = anchorPathGlob(glob)
		}
		// Globs were validated by WithExcludes.
		if ok, _ := doublestar.Match(glob, subject); ok {
			return true
		}
	}
	return false
}
