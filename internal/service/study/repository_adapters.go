package study

import (
	"context"
	"database/sql"

	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/store"
)

// VocabularyRepository is the subset of vocabulary persistence the study
// service needs.
type VocabularyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.VocabularyItem, error)
	ListWithoutProgress(ctx context.Context, limit int) ([]*domain.VocabularyItem, error)
	Count(ctx context.Context) (int, error)

	// WithTx returns a new repository instance that uses the provided transaction.
	WithTx(tx *sql.Tx) VocabularyRepository
}

// ProgressRepository is the subset of progress persistence the study
// service needs.
type ProgressRepository interface {
	GetByItemID(ctx context.Context, itemID int64) (*domain.ProgressRecord, error)
	GetByItemIDForUpdate(ctx context.Context, itemID int64) (*domain.ProgressRecord, error)
	ListScoreBelow(ctx context.Context, threshold float64) ([]*domain.ProgressRecord, error)
	CountScoreAtLeast(ctx context.Context, threshold float64) (int, error)
	CountScoreBelow(ctx context.Context, threshold float64) (int, error)
	CreateIfAbsent(ctx context.Context, record *domain.ProgressRecord) (bool, error)
	Upsert(ctx context.Context, record *domain.ProgressRecord) (*domain.ProgressRecord, error)

	// WithTx returns a new repository instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProgressRepository
}

// NewVocabularyRepositoryAdapter allows a store.VocabularyStore to be used
// where a VocabularyRepository is expected.
func NewVocabularyRepositoryAdapter(s store.VocabularyStore) VocabularyRepository {
	return &vocabularyRepositoryAdapter{store: s}
}

type vocabularyRepositoryAdapter struct {
	store store.VocabularyStore
}

func (a *vocabularyRepositoryAdapter) GetByID(ctx context.Context, id int64) (*domain.VocabularyItem, error) {
	return a.store.GetByID(ctx, id)
}

func (a *vocabularyRepositoryAdapter) ListWithoutProgress(
	ctx context.Context,
	limit int,
) ([]*domain.VocabularyItem, error) {
	return a.store.ListWithoutProgress(ctx, limit)
}

func (a *vocabularyRepositoryAdapter) Count(ctx context.Context) (int, error) {
	return a.store.Count(ctx)
}

func (a *vocabularyRepositoryAdapter) WithTx(tx *sql.Tx) VocabularyRepository {
	return &vocabularyRepositoryAdapter{store: a.store.WithTx(tx)}
}

// NewProgressRepositoryAdapter allows a store.ProgressStore to be used where
// a ProgressRepository is expected.
func NewProgressRepositoryAdapter(s store.ProgressStore) ProgressRepository {
	return &progressRepositoryAdapter{store: s}
}

type progressRepositoryAdapter struct {
	store store.ProgressStore
}

func (a *progressRepositoryAdapter) GetByItemID(ctx context.Context, itemID int64) (*domain.ProgressRecord, error) {
	return a.store.GetByItemID(ctx, itemID)
}

func (a *progressRepositoryAdapter) GetByItemIDForUpdate(
	ctx context.Context,
	itemID int64,
) (*domain.ProgressRecord, error) {
	return a.store.GetByItemIDForUpdate(ctx, itemID)
}

func (a *progressRepositoryAdapter) ListScoreBelow(
	ctx context.Context,
	threshold float64,
) ([]*domain.ProgressRecord, error) {
	return a.store.ListScoreBelow(ctx, threshold)
}

func (a *progressRepositoryAdapter) CountScoreAtLeast(ctx context.Context, threshold float64) (int, error) {
	return a.store.CountScoreAtLeast(ctx, threshold)
}

func (a *progressRepositoryAdapter) CountScoreBelow(ctx context.Context, threshold float64) (int, error) {
	return a.store.CountScoreBelow(ctx, threshold)
}

func (a *progressRepositoryAdapter) CreateIfAbsent(ctx context.Context, record *domain.ProgressRecord) (bool, error) {
	return a.store.CreateIfAbsent(ctx, record)
}

func (a *progressRepositoryAdapter) Upsert(
	ctx context.Context,
	record *domain.ProgressRecord,
) (*domain.ProgressRecord, error) {
	return a.store.Upsert(ctx, record)
}

func (a *progressRepositoryAdapter) WithTx(tx *sql.Tx) ProgressRepository {
	return &progressRepositoryAdapter{store: a.store.WithTx(tx)}
}
