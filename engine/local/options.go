package local

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	defaultBatchSize      = 512
	defaultReportInterval = 1000
)

// options holds the settings shared by the engine, indexer, and watcher.
// Each component reads the ones that concern it.
type options struct {
	logger         *slog.Logger
	excludes       []string
	workers        int
	batchSize      int
	prune          bool
	recordRoots    bool
	progress       io.Writer
	reportInterval int
}

func defaultOptions() options {
	workers := runtime.NumCPU() / 2
	if workers < 1 {
		workers = 1
	}
	return options{
		logger:         slog.Default(),
		workers:        workers,
		batchSize:      defaultBatchSize,
		prune:          true,
		recordRoots:    true,
		reportInterval: defaultReportInterval,
	}
}

func buildOptions(opts []Option) (options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return options{}, err
		}
	}
	return o, nil
}

// Option configures an Engine, Indexer, or Watcher.
type Option func(*options) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithExcludes skips paths matching any of the doublestar globs. A glob
// without a separator matches names; others match slash-separated full
// paths, so "**/node_modules" and "node_modules" are equivalent.
func WithExcludes(globs ...string) Option {
	return func(o *options) error {
		for _, g := range globs {
			if !doublestar.ValidatePattern(g) {
				return fmt.Errorf("%w: %q", ErrInvalidExclude, g)
			}
		}
		o.excludes = append(o.excludes, globs...)
		return nil
	}
}

// WithWorkers sets the number of concurrent stat workers.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n < 1 {
			n = 1
		}
		o.workers = n
		return nil
	}
}

// WithBatchSize sets how many entries are written per batch.
func WithBatchSize(n int) Option {
	return func(o *options) error {
		if n < 1 {
			n = 1
		}
		o.batchSize = n
		return nil
	}
}

// WithPrune sets whether indexing removes entries that no longer exist
// under the indexed roots. On by default.
func WithPrune(enabled bool) Option {
	return func(o *options) error {
		o.prune = enabled
		return nil
	}
}

// withoutRootRecords keeps the indexer from recording its roots.
func withoutRootRecords() Option {
	return func(o *options) error {
		o.recordRoots = false
		return nil
	}
}

// WithProgress reports indexing progress to w every interval entries.
func WithProgress(w io.Writer, interval int) Option {
	return func(o *options) error {
		if interval < 1 {
			interval = defaultReportInterval
		}
		o.progress = w
		o.reportInterval = interval
		return nil
	}
}
