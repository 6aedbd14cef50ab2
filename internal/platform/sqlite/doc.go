// Package sqlite provides SQLite implementations of the internal/store
// interfaces on top of github.com/mattn/go-sqlite3, for single-node
// deployments, local development and tests.
//
// SQLite has no row locks. Open configures every transaction to start with
// BEGIN IMMEDIATE, which takes the database write lock up front, so a
// read-modify-write inside a transaction cannot interleave with another
// writer. GetByItemIDForUpdate is therefore a plain read.
package sqlite
