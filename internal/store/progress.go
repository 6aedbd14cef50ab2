package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/lingua-api/internal/domain"
)

// ProgressStore defines the interface for progress record persistence.
// There is at most one record per vocabulary item.
type ProgressStore interface {
	// GetByItemID retrieves the record for an item.
	// Returns ErrProgressRecordNotFound if the item has no record.
	GetByItemID(ctx context.Context, itemID int64) (*domain.ProgressRecord, error)

	// GetByItemIDForUpdate retrieves the record for an item and locks it
	// until the surrounding transaction ends. Must be called on a store
	// returned by WithTx.
	// Returns ErrProgressRecordNotFound if the item has no record.
	GetByItemIDForUpdate(ctx context.Context, itemID int64) (*domain.ProgressRecord, error)

	// ListScoreBelow returns all records with score strictly below threshold,
	// ordered by ID.
	ListScoreBelow(ctx context.Context, threshold float64) ([]*domain.ProgressRecord, error)

	// CountScoreAtLeast counts records with score >= threshold.
	CountScoreAtLeast(ctx context.Context, threshold float64) (int, error)

	// CountScoreBelow counts records with score < threshold.
	CountScoreBelow(ctx context.Context, threshold float64) (int, error)

	// CreateIfAbsent inserts record unless the item already has one.
	// created reports whether this call inserted the row; when it did,
	// record.ID is set. Never fails because of an existing record.
	// Returns ErrForeignKeyViolation if the item does not exist.
	CreateIfAbsent(ctx context.Context, record *domain.ProgressRecord) (created bool, err error)

	// Upsert writes the score and review time of record, inserting the row
	// if the item has none, and returns the stored record.
	Upsert(ctx context.Context, record *domain.ProgressRecord) (*domain.ProgressRecord, error)

	// WithTx returns a new ProgressStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProgressStore
}
