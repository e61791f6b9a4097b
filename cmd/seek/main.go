// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/poiesic/seek/config"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "seek",
		Usage:     "Search file and folder names through a system or local index",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML config file",
			},
			&cli.StringFlag{
				Name:    "engine",
				Aliases: []string{"e"},
				Usage:   "Search engine (sdk, local)",
			},
			&cli.StringFlag{
				Name:  "index",
				Usage: "Local index directory",
			},
			&cli.StringFlag{
				Name:  "verify",
				Usage: "Handling of malformed engine results (strict, lenient)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "query",
				Aliases:   []string{"q"},
				Usage:     "Search for files and folders",
				ArgsUsage: "PATTERN",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "regex",
						Aliases: []string{"r"},
						Usage:   "Treat the pattern as a regular expression",
					},
					&cli.BoolFlag{
						Name:  "case",
						Usage: "Match case",
					},
					&cli.BoolFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Match against full paths instead of names",
					},
					&cli.BoolFlag{
						Name:    "whole-word",
						Aliases: []string{"w"},
						Usage:   "Match whole words only",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort key (name, path, size, extension, type, created, modified, accessed, attributes)",
						Value: "name",
					},
					&cli.BoolFlag{
						Name:  "desc",
						Usage: "Sort in descending order",
					},
					&cli.StringSliceFlag{
						Name:    "meta",
						Aliases: []string{"m"},
						Usage:   "Metadata to fetch (size, created, modified, accessed, attributes, all)",
					},
					&cli.StringFlag{
						Name:  "range",
						Usage: "Result range such as 0..10, 5.. or ..=9",
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Index of the first result",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results (0 for no limit)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Write results as JSON",
					},
					&cli.StringFlag{
						Name:  "metrics-file",
						Usage: "Write query metrics to this file in Prometheus text format",
					},
				},
			},
			{
				Name:      "index",
				Usage:     "Build or refresh the local index",
				ArgsUsage: "[ROOT...]",
				Action:    indexCommand,
				Flags:     indexFlags(),
			},
			{
				Name:      "watch",
				Usage:     "Index roots, then keep the local index current until interrupted",
				ArgsUsage: "[ROOT...]",
				Action:    watchCommand,
				Flags:     indexFlags(),
			},
			{
				Name:   "roots",
				Usage:  "List the roots recorded in the local index",
				Action: rootsCommand,
			},
			{
				Name:      "forget",
				Usage:     "Remove roots and everything below them from the local index",
				ArgsUsage: "ROOT...",
				Action:    forgetCommand,
			},
		},
	}
}

func indexFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "exclude",
			Aliases: []string{"x"},
			Usage:   "Glob of paths to skip (repeatable)",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Number of concurrent stat workers (0 for default)",
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of entries written per batch (0 for default)",
		},
		&cli.BoolFlag{
			Name:  "no-prune",
			Usage: "Keep entries for paths that no longer exist",
		},
		&cli.BoolFlag{
			Name:  "progress",
			Usage: "Report indexing progress on stderr",
		},
	}
}

// setupLogger resolves the configuration from the config file and global
// flags, then installs the default logger.
func setupLogger(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}

	stderr := c.App.ErrWriter
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("engine") {
		cfg.Engine = c.String("engine")
	}
	if c.IsSet("index") {
		cfg.IndexDir = c.String("index")
	}
	if c.IsSet("verify") {
		cfg.Verification = c.String("verify")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configFrom(c *cli.Context) (*config.Config, error) {
	cfg, ok := c.App.Metadata[configKey].(*config.Config)
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}
