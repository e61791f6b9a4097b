// Package config holds the application settings of the seek command:
// which engine to search, how to log, and how the local index is built.
//
// Settings come from DefaultConfig, optionally overlaid by a TOML file
// through Load, and finally by command-line flags. Unknown keys in the
// file are rejected so that typos do not silently fall back to defaults.
//
// Example file:
//
//	engine = "local"
//	log_level = "debug"
//	verification = "strict"
//	index_dir = "/var/cache/seek"
//	roots = ["/home/me/src"]
//	excludes = [".git", "node_modules", "**/build/**"]
//	workers = 4
//	batch_size = 1024
package config
