package seek

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/seek/engine/local"
)

// LocalIndex bundles a local file index with an executor over it, for
// searching where no system search engine is available.
type LocalIndex struct {
	backend   *local.Backend
	index     *local.Index
	engine    *local.Engine
	executor  *Executor
	localOpts []local.Option
	logger    *slog.Logger
}

// LocalIndexOption configures a LocalIndex.
type LocalIndexOption func(*localIndexOptions)

type localIndexOptions struct {
	executorOpts  []Option
	localOpts     []local.Option
	logger        *slog.Logger
	inMemory      bool
	retryAttempts int
	retryDelay    time.Duration
}

// WithLocalLogger sets the logger of the index and everything built on it.
func WithLocalLogger(logger *slog.Logger) LocalIndexOption {
	return func(o *localIndexOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// WithExecutorOptions passes options to the executor.
func WithExecutorOptions(opts ...Option) LocalIndexOption {
	return func(o *localIndexOptions) {
		o.executorOpts = append(o.executorOpts, opts...)
	}
}

// WithLocalOptions sets defaults for the engine and for indexers and
// watchers created from the index.
func WithLocalOptions(opts ...local.Option) LocalIndexOption {
	return func(o *localIndexOptions) {
		o.localOpts = append(o.localOpts, opts...)
	}
}

// WithInMemory keeps the index in memory; the directory is ignored.
func WithInMemory() LocalIndexOption {
	return func(o *localIndexOptions) {
		o.inMemory = true
	}
}

// WithOpenRetry retries opening an index directory held by another process.
func WithOpenRetry(attempts int, baseDelay time.Duration) LocalIndexOption {
	return func(o *localIndexOptions) {
		o.retryAttempts = attempts
		o.retryDelay = baseDelay
	}
}

// OpenLocalIndex opens (or creates) the index stored in dir.
func OpenLocalIndex(ctx context.Context, dir string, opts ...LocalIndexOption) (*LocalIndex, error) {
	options := &localIndexOptions{
		logger:        slog.Default(),
		retryAttempts: 1,
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	var (
		backend *local.Backend
		err     error
	)
	switch {
	case options.inMemory:
		backend, err = local.OpenBackend("", true, options.logger)
	case options.retryAttempts > 1:
		backend, err = local.OpenWithRetry(ctx, dir, options.logger, options.retryAttempts, options.retryDelay)
	default:
		backend, err = local.OpenBackend(dir, false, options.logger)
	}
	if err != nil {
		return nil, err
	}

	index, err := local.NewIndex(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	localOpts := append([]local.Option{local.WithLogger(options.logger)}, options.localOpts...)
	eng, err := local.NewEngine(index, localOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	executorOpts := append([]Option{WithLogger(options.logger)}, options.executorOpts...)
	executor, err := NewExecutor(eng, executorOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &LocalIndex{
		backend:   backend,
		index:     index,
		engine:    eng,
		executor:  executor,
		localOpts: localOpts,
		logger:    options.logger,
	}, nil
}

// Executor returns the executor that searches the index.
func (li *LocalIndex) Executor() *Executor {
	return li.executor
}

// Index returns the underlying index.
func (li *LocalIndex) Index() *local.Index {
	return li.index
}

// NewIndexer creates an indexer that fills the index.
func (li *LocalIndex) NewIndexer(opts ...local.Option) (*local.Indexer, error) {
	return local.NewIndexer(li.index, li.withDefaults(opts)...)
}

// NewWatcher creates a watcher that keeps the index current.
func (li *LocalIndex) NewWatcher(opts ...local.Option) (*local.Watcher, error) {
	return local.NewWatcher(li.index, li.withDefaults(opts)...)
}

func (li *LocalIndex) withDefaults(opts []local.Option) []local.Option {
	return append(append([]local.Option{}, li.localOpts...), opts...)
}

// Close closes the index. Queries must not be running.
func (li *LocalIndex) Close() error {
	ReleaseEngine(li.engine)
	if err := li.backend.Close(); err != nil {
		li.logger.Error("error closing index storage", "err", err)
		return err
	}
	return nil
}
