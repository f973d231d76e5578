// Package cmd implements the command-line interface of mredis.
//
// The package is organized into several subpackages:
//
//   - serve: Starts the server
//   - kv: Client commands (set, get, expire, ttl, keys, save, select, raw, perf)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set as environment variable MREDIS_<FLAG> (dashes become
// underscores), .env and .env.local files are loaded on startup.
//
// See mredis --help for a list of all commands.
package cmd
