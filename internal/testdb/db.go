package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/lingua-api/internal/config"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
	"github.com/phrazzld/lingua-api/internal/platform/migrate"
	"github.com/phrazzld/lingua-api/internal/platform/sqlite"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 10 * time.Second

// IsIntegrationTestEnvironment returns true if the DATABASE_URL environment
// variable is set, indicating that integration tests can be run.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// GetTestDatabaseURL returns DATABASE_URL, falling back to LINGUA_TEST_DB_URL.
func GetTestDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return os.Getenv("LINGUA_TEST_DB_URL")
}

// NewSQLite returns a migrated private in-memory SQLite database that is
// closed when the test ends.
func NewSQLite(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err, "Failed to open in-memory sqlite database")
	t.Cleanup(func() { _ = db.Close() })

	l, _ := logger.NewTestLogger(t)
	require.NoError(t, migrate.Up(ctx, db, config.DriverSQLite, l), "Failed to run migrations")

	return db
}

// GetTestPostgres opens the integration database, applies migrations and
// empties the tables. The test is skipped when no database URL is configured.
func GetTestPostgres(t *testing.T) *sql.DB {
	t.Helper()

	url := GetTestDatabaseURL()
	if url == "" {
		t.Skip("DATABASE_URL not set - skipping PostgreSQL integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := sql.Open("pgx", url)
	require.NoError(t, err, "Failed to open database connection")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.PingContext(ctx), "Database ping failed")

	l, _ := logger.NewTestLogger(t)
	require.NoError(t, migrate.Up(ctx, db, config.DriverPostgres, l), "Failed to run migrations")

	ResetPostgres(t, db)
	return db
}

// ResetPostgres removes all rows and restarts identity sequences.
func ResetPostgres(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`TRUNCATE progress_records, vocabulary_items RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Failed to reset tables")
}

// WithTx executes a test function within a transaction, automatically rolling back
// after the test completes. This ensures test isolation and prevents side effects.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		err := tx.Rollback()
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
