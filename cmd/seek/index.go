package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/poiesic/seek"
	"github.com/poiesic/seek/config"
	"github.com/poiesic/seek/engine/local"
	"github.com/urfave/cli/v2"
)

func indexCommand(c *cli.Context) (err error) {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, roots, err := indexConfig(c)
	if err != nil {
		return err
	}

	li, err := openLocalIndex(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeInto(li.Close, &err)

	roots, err = resolveRoots(ctx, li, roots)
	if err != nil {
		return err
	}
	_, err = runIndexer(ctx, c, li, roots)
	return err
}

func watchCommand(c *cli.Context) (err error) {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, roots, err := indexConfig(c)
	if err != nil {
		return err
	}

	li, err := openLocalIndex(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeInto(li.Close, &err)

	roots, err = resolveRoots(ctx, li, roots)
	if err != nil {
		return err
	}
	if _, err := runIndexer(ctx, c, li, roots); err != nil {
		return err
	}

	watcher, err := li.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(roots...); err != nil {
		return fmt.Errorf("failed to watch roots: %w", err)
	}
	fmt.Fprintf(c.App.ErrWriter, "Watching %d root(s); press Ctrl-C to stop\n", len(roots))
	return watcher.Run(ctx)
}

// indexConfig merges the index flags into the loaded configuration. Roots
// given on the command line replace the configured ones.
func indexConfig(c *cli.Context) (*config.Config, []string, error) {
	base, err := configFrom(c)
	if err != nil {
		return nil, nil, err
	}
	cfg := *base

	if c.IsSet("exclude") {
		config.WithExcludes(c.StringSlice("exclude")...)(&cfg)
	}
	if c.IsSet("workers") {
		config.WithWorkers(c.Int("workers"))(&cfg)
	}
	if c.IsSet("batch-size") {
		config.WithBatchSize(c.Int("batch-size"))(&cfg)
	}
	if c.NArg() > 0 {
		config.WithRoots(c.Args().Slice()...)(&cfg)
	}
	cfg.Engine = config.EngineLocal

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return &cfg, cfg.Roots, nil
}

// resolveRoots falls back to the roots recorded in the index when none were
// configured.
func resolveRoots(ctx context.Context, li *seek.LocalIndex, roots []string) ([]string, error) {
	if len(roots) > 0 {
		return roots, nil
	}
	recorded, err := li.Index().Roots(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read indexed roots: %w", err)
	}
	for _, r := range recorded {
		roots = append(roots, r.Path)
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("no roots to index: pass ROOT arguments or set roots in the config file")
	}
	return roots, nil
}

func runIndexer(ctx context.Context, c *cli.Context, li *seek.LocalIndex, roots []string) (local.Stats, error) {
	opts := []local.Option{local.WithPrune(!c.Bool("no-prune"))}
	if c.Bool("progress") {
		opts = append(opts, local.WithProgress(c.App.ErrWriter, 0))
	}

	indexer, err := li.NewIndexer(opts...)
	if err != nil {
		return local.Stats{}, fmt.Errorf("failed to create indexer: %w", err)
	}
	stats, err := indexer.Index(ctx, roots...)
	if err != nil {
		return stats, fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintf(c.App.ErrWriter, "Indexed %d entries (%d skipped, %d pruned) in %s\n",
		stats.Indexed, stats.Skipped, stats.Pruned, stats.Elapsed.Round(time.Millisecond))
	return stats, nil
}

func rootsCommand(c *cli.Context) (err error) {
	cfg, err := configFrom(c)
	if err != nil {
		return err
	}
	li, err := openLocalIndex(c.Context, cfg)
	if err != nil {
		return err
	}
	defer closeInto(li.Close, &err)

	roots, err := li.Index().Roots(c.Context)
	if err != nil {
		return fmt.Errorf("failed to read indexed roots: %w", err)
	}
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	for _, r := range roots {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", r.IndexedAt.Local().Format(time.DateTime), r.Entries, r.Path)
	}
	return tw.Flush()
}

func forgetCommand(c *cli.Context) (err error) {
	if c.NArg() == 0 {
		return fmt.Errorf("forget takes at least one ROOT argument")
	}
	cfg, err := configFrom(c)
	if err != nil {
		return err
	}
	li, err := openLocalIndex(c.Context, cfg)
	if err != nil {
		return err
	}
	defer closeInto(li.Close, &err)

	for _, root := range c.Args().Slice() {
		abs, err := filepath.Abs(root)
		if err != nil {
			return err
		}
		removed, err := li.Index().ForgetRoot(c.Context, abs)
		if err != nil {
			return fmt.Errorf("failed to forget %s: %w", abs, err)
		}
		fmt.Fprintf(c.App.ErrWriter, "Removed %d entries under %s\n", removed, abs)
	}
	return nil
}
