// Package storage provides JSON-based persistence for game snapshots.
//
// The storage package manages local snapshot files that track scraped games
// across runs. Snapshots are stored in JSON format, one file per source
// (snapshot_SOURCE.json), under a configurable data directory.
package storage
