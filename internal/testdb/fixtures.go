package testdb

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// InsertItem inserts a vocabulary item directly, bypassing the stores, and
// returns its ID.
func InsertItem(t *testing.T, db *sql.DB, d Dialect, text, translation string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRowContext(context.Background(), d.insertItem, text, translation, time.Now().UTC()).Scan(&id)
	require.NoError(t, err, "Failed to insert vocabulary item %q", text)
	return id
}

// InsertProgress inserts a progress record directly and returns its ID.
func InsertProgress(t *testing.T, db *sql.DB, d Dialect, itemID int64, score float64) int64 {
	t.Helper()

	var id int64
	err := db.QueryRowContext(context.Background(), d.insertProgress, itemID, score, time.Now().UTC()).Scan(&id)
	require.NoError(t, err, "Failed to insert progress record for item %d", itemID)
	return id
}

// DeleteItem deletes a vocabulary item directly.
func DeleteItem(t *testing.T, db *sql.DB, d Dialect, itemID int64) {
	t.Helper()

	_, err := db.ExecContext(context.Background(), d.deleteItem, itemID)
	require.NoError(t, err, "Failed to delete vocabulary item %d", itemID)
}

// Dialect holds the fixture statements for one database.
type Dialect struct {
	insertItem     string
	insertProgress string
	deleteItem     string
}

// Fixture dialects
var (
	SQLite = Dialect{
		insertItem:     `INSERT INTO vocabulary_items (text, translation, created_at) VALUES (?, ?, ?) RETURNING id`,
		insertProgress: `INSERT INTO progress_records (item_id, score, last_reviewed_at) VALUES (?, ?, ?) RETURNING id`,
		deleteItem:     `DELETE FROM vocabulary_items WHERE id = ?`,
	}
	Postgres = Dialect{
		insertItem:     `INSERT INTO vocabulary_items (text, translation, created_at) VALUES ($1, $2, $3) RETURNING id`,
		insertProgress: `INSERT INTO progress_records (item_id, score, last_reviewed_at) VALUES ($1, $2, $3) RETURNING id`,
		deleteItem:     `DELETE FROM vocabulary_items WHERE id = $1`,
	}
)
