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

package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"github.com/poiesic/seek"
	"github.com/poiesic/seek/engine/local"
)

// Engine kinds.
const (
	EngineSDK   = "sdk"
	EngineLocal = "local"
)

// Config holds the settings of the seek command.
type Config struct {
	// Engine selects the search engine: "sdk" for the system search
	// service, "local" for the badger-backed local index.
	// Default: "sdk" on Windows, "local" elsewhere.
	Engine string `toml:"engine"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// Verification is "strict" or "lenient".
	Verification string `toml:"verification"`

	// IndexDir is where the local index is stored.
	IndexDir string `toml:"index_dir"`

	// Roots are the directories the local index covers.
	Roots []string `toml:"roots"`

	// Excludes are doublestar globs skipped while indexing. A glob without
	// a separator is matched against base names.
	Excludes []string `toml:"excludes"`

	// Workers is the number of stat workers. Zero picks a default.
	Workers int `toml:"workers"`

	// BatchSize is the number of entries written per index batch. Zero
	// picks a default.
	BatchSize int `toml:"batch_size"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEngine sets the engine kind.
func WithEngine(kind string) ConfigOption {
	return func(c *Config) {
		c.Engine = kind
	}
}

// WithLogLevel sets the log level name.
func WithLogLevel(level string) ConfigOption {
	return func(c *Config) {
		c.LogLevel = level
	}
}

// WithVerification sets the verification mode name.
func WithVerification(mode string) ConfigOption {
	return func(c *Config) {
		c.Verification = mode
	}
}

// WithIndexDir sets the local index directory.
func WithIndexDir(dir string) ConfigOption {
	return func(c *Config) {
		c.IndexDir = dir
	}
}

// WithRoots sets the indexed roots.
func WithRoots(roots ...string) ConfigOption {
	return func(c *Config) {
		c.Roots = roots
	}
}

// WithExcludes adds exclude globs.
func WithExcludes(globs ...string) ConfigOption {
	return func(c *Config) {
		c.Excludes = append(c.Excludes, globs...)
	}
}

// WithWorkers sets the number of stat workers.
func WithWorkers(n int) ConfigOption {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithBatchSize sets the index write batch size.
func WithBatchSize(n int) ConfigOption {
	return func(c *Config) {
		c.BatchSize = n
	}
}

// DefaultConfig returns a Config with defaults for the current platform.
func DefaultConfig() *Config {
	engine := EngineLocal
	if runtime.GOOS == "windows" {
		engine = EngineSDK
	}
	return &Config{
		Engine:       engine,
		LogLevel:     "info",
		Verification: seek.DefaultVerification().String(),
		IndexDir:     defaultIndexDir(),
	}
}

func defaultIndexDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".seek"
	}
	return filepath.Join(dir, "seek", "index")
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Load reads a TOML file over the defaults.
func Load(path string, opts ...ConfigOption) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	for _, opt := range opts {
		opt(cfg)
	}
	return cfg, nil
}

// Normalize puts names in lower case and cleans paths.
func (c *Config) Normalize() {
	c.Engine = strings.ToLower(strings.TrimSpace(c.Engine))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Verification = strings.ToLower(strings.TrimSpace(c.Verification))
	if c.IndexDir != "" {
		c.IndexDir = filepath.Clean(c.IndexDir)
	}

	roots := c.Roots[:0]
	seen := make(map[string]struct{}, len(c.Roots))
	for _, root := range c.Roots {
		if root == "" {
			continue
		}
		root = filepath.Clean(root)
		if _, ok := seen[root]; ok {
			continue
		}
		seen[root] = struct{}{}
		roots = append(roots, root)
	}
	c.Roots = roots
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration first.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Engine {
	case EngineSDK, EngineLocal:
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalidConfig, ErrUnknownEngine, c.Engine)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.VerificationMode(); err != nil {
		return err
	}
	if c.Engine == EngineLocal && c.IndexDir == "" {
		return fmt.Errorf("%w: index_dir is required for the local engine", ErrInvalidConfig)
	}
	for _, glob := range c.Excludes {
		if !doublestar.ValidatePattern(glob) {
			return fmt.Errorf("%w: bad exclude glob %q", ErrInvalidConfig, glob)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("%w: batch_size must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return level, nil
}

// VerificationMode parses Verification.
func (c *Config) VerificationMode() (seek.Verification, error) {
	v, err := seek.ParseVerification(c.Verification)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return v, nil
}

// LocalOptions converts the index settings into engine/local options.
func (c *Config) LocalOptions() []local.Option {
	var opts []local.Option
	if len(c.Excludes) > 0 {
		opts = append(opts, local.WithExcludes(c.Excludes...))
	}
	if c.Workers > 0 {
		opts = append(opts, local.WithWorkers(c.Workers))
	}
	if c.BatchSize > 0 {
		opts = append(opts, local.WithBatchSize(c.BatchSize))
	}
	return opts
}
