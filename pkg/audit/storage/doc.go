// Package storage provides audit record backends.
//
//   - MemoryStorage keeps records in a slice; it is the default and is lost
//     on restart.
//   - SQLiteStorage persists records to a SQLite file using either the cgo
//     driver (github.com/mattn/go-sqlite3, driver name "sqlite3") or the pure
//     Go driver (modernc.org/sqlite, driver name "sqlite").
//
// New picks a backend from the audit configuration section.
package storage
