package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	// Registers the "sqlite3" driver.
	_ "github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver name registered by go-sqlite3.
const DriverName = "sqlite3"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DSN builds a go-sqlite3 connection string for path with foreign keys on,
// immediate write transactions and a busy timeout.
func DSN(path string) string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_txlock", "immediate")
	params.Set("_busy_timeout", "5000")
	if path != MemoryPath {
		params.Set("_journal_mode", "WAL")
	}
	return path + "?" + params.Encode()
}

// Open opens and pings the database at path. An in-memory database exists
// per connection, so for MemoryPath the pool is pinned to one connection
// that is never recycled.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if path == MemoryPath {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return db, nil
}
