package main

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/seek"
	"github.com/poiesic/seek/config"
	"github.com/poiesic/seek/engine/sdk"
)

const (
	openAttempts  = 5
	openBaseDelay = 100 * time.Millisecond
)

// openExecutor returns an executor for the configured engine and a function
// releasing whatever was opened for it.
func openExecutor(ctx context.Context, cfg *config.Config, opts ...seek.Option) (*seek.Executor, func() error, error) {
	verification, err := cfg.VerificationMode()
	if err != nil {
		return nil, nil, err
	}
	opts = append([]seek.Option{seek.WithVerification(verification)}, opts...)

	switch cfg.Engine {
	case config.EngineSDK:
		eng, err := sdk.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open search engine: %w", err)
		}
		x, err := seek.NewExecutor(eng, opts...)
		if err != nil {
			return nil, nil, err
		}
		return x, func() error { return nil }, nil

	case config.EngineLocal:
		li, err := openLocalIndex(ctx, cfg, seek.WithExecutorOptions(opts...))
		if err != nil {
			return nil, nil, err
		}
		return li.Executor(), li.Close, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownEngine, cfg.Engine)
}

func openLocalIndex(ctx context.Context, cfg *config.Config, opts ...seek.LocalIndexOption) (*seek.LocalIndex, error) {
	opts = append([]seek.LocalIndexOption{
		seek.WithLocalOptions(cfg.LocalOptions()...),
		seek.WithOpenRetry(openAttempts, openBaseDelay),
	}, opts...)
	li, err := seek.OpenLocalIndex(ctx, cfg.IndexDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open index %s: %w", cfg.IndexDir, err)
	}
	return li, nil
}

// closeInto runs closeFn and, when it fails, stores the failure in *errp
// unless the command already failed. Close errors are logged by the index.
func closeInto(closeFn func() error, errp *error) {
	if err := closeFn(); err != nil && *errp == nil {
		*errp = fmt.Errorf("failed to close index: %w", err)
	}
}
