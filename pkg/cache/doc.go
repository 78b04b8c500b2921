// Package cache stores rendered partition artifacts.
//
// Rendering a partition through Graphviz is the slowest thing gridnet does,
// and replaying a scenario always yields the same DOT source for the same
// step. The CLI therefore keys rendered SVGs by a hash of their DOT source and
// render options and keeps them in a [Cache].
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (default for the CLI)
//   - [RedisCache]: shared cache in Redis, for CI runners rendering the same scenarios
//   - [SQLiteCache]: one database file, for machines that dislike many small files
//   - [NullCache]: never stores anything (--no-cache)
//
// Any backend can be wrapped with [Instrument] to report hits, misses and
// writes to observability.CacheHooks.
//
// # Keys
//
// A [Keyer] builds keys. [DefaultKeyer] hashes the DOT source and options;
// [ScopedKeyer] adds a namespace prefix, which the CLI uses for Redis so that
// several tools can share one database.
package cache
