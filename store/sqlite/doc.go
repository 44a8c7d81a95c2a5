// Package sqlite provides a store.Collection persisted in a local SQLite
// database file under a configurable storage directory. It is the default
// backend for the research agent CLI: no server required, everything lives
// in one file under the storage directory.
package sqlite
