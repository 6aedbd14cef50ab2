package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/lingua-api/internal/domain"
)

// VocabularyStore defines the interface for vocabulary item persistence.
type VocabularyStore interface {
	// GetByID retrieves an item by its ID.
	// Returns ErrVocabularyItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id int64) (*domain.VocabularyItem, error)

	// GetByText retrieves an item by its normalized text.
	// Returns ErrVocabularyItemNotFound if no item has that text.
	GetByText(ctx context.Context, text string) (*domain.VocabularyItem, error)

	// List returns every item ordered by ID.
	List(ctx context.Context) ([]*domain.VocabularyItem, error)

	// ListWithoutProgress returns up to limit items that have no progress
	// record, ordered by ID. A non-positive limit returns an empty slice.
	ListWithoutProgress(ctx context.Context, limit int) ([]*domain.VocabularyItem, error)

	// Count returns the total number of items.
	Count(ctx context.Context) (int, error)

	// CreateOrGet inserts item unless an item with the same text already
	// exists, in which case the existing item is returned and created is
	// false. Safe against concurrent inserts of the same text.
	// On success item.ID and item.CreatedAt reflect the stored row.
	CreateOrGet(ctx context.Context, item *domain.VocabularyItem) (stored *domain.VocabularyItem, created bool, err error)

	// UpdateTranslation replaces the translation of an existing item.
	// Returns ErrVocabularyItemNotFound if the item does not exist.
	UpdateTranslation(ctx context.Context, id int64, translation string) error

	// WithTx returns a new VocabularyStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) VocabularyStore
}
