package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
	"github.com/phrazzld/lingua-api/internal/store"
)

// PostgresVocabularyStore implements the store.VocabularyStore interface
// using a PostgreSQL database as the storage backend.
type PostgresVocabularyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresVocabularyStore creates a new PostgreSQL implementation of the VocabularyStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresVocabularyStore(db store.DBTX, logger *slog.Logger) *PostgresVocabularyStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresVocabularyStore{
		db:     db,
		logger: logger.With(slog.String("component", "vocabulary_store")),
	}
}

// Ensure PostgresVocabularyStore implements store.VocabularyStore interface
var _ store.VocabularyStore = (*PostgresVocabularyStore)(nil)

const vocabularyColumns = `id, text, translation, created_at`

// GetByID implements store.VocabularyStore.GetByID
func (s *PostgresVocabularyStore) GetByID(ctx context.Context, id int64) (*domain.VocabularyItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + vocabularyColumns + ` FROM vocabulary_items WHERE id = $1`

	item, err := scanVocabularyItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("vocabulary item not found", slog.Int64("item_id", id))
			return nil, store.ErrVocabularyItemNotFound
		}
		log.Error("failed to get vocabulary item by ID",
			slog.String("error", err.Error()),
			slog.Int64("item_id", id))
		return nil, MapError(err)
	}

	return item, nil
}

// GetByText implements store.VocabularyStore.GetByText
func (s *PostgresVocabularyStore) GetByText(ctx context.Context, text string) (*domain.VocabularyItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + vocabularyColumns + ` FROM vocabulary_items WHERE text = $1`

	item, err := scanVocabularyItem(s.db.QueryRowContext(ctx, query, domain.NormalizeText(text)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrVocabularyItemNotFound
		}
		log.Error("failed to get vocabulary item by text",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return item, nil
}

// List implements store.VocabularyStore.List
func (s *PostgresVocabularyStore) List(ctx context.Context) ([]*domain.VocabularyItem, error) {
	query := `SELECT ` + vocabularyColumns + ` FROM vocabulary_items ORDER BY id`
	return s.queryItems(ctx, "list", query)
}

// ListWithoutProgress implements store.VocabularyStore.ListWithoutProgress
func (s *PostgresVocabularyStore) ListWithoutProgress(
	ctx context.Context,
	limit int,
) ([]*domain.VocabularyItem, error) {
	if limit <= 0 {
		return []*domain.VocabularyItem{}, nil
	}

	query := `
		SELECT v.id, v.text, v.translation, v.created_at
		FROM vocabulary_items v
		LEFT JOIN progress_records p ON p.item_id = v.id
		WHERE p.id IS NULL
		ORDER BY v.id
		LIMIT $1
	`
	return s.queryItems(ctx, "list_without_progress", query, limit)
}

// Count implements store.VocabularyStore.Count
func (s *PostgresVocabularyStore) Count(ctx context.Context) (int, error) {
	count, err := store.QueryCount(ctx, s.db, `SELECT COUNT(*) FROM vocabulary_items`)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count vocabulary items",
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}
	return count, nil
}

// CreateOrGet implements store.VocabularyStore.CreateOrGet
func (s *PostgresVocabularyStore) CreateOrGet(
	ctx context.Context,
	item *domain.VocabularyItem,
) (*domain.VocabularyItem, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("vocabulary item validation failed during create",
			slog.String("error", err.Error()))
		return nil, false, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO vocabulary_items (text, translation, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (text) DO NOTHING
		RETURNING ` + vocabularyColumns

	created, err := scanVocabularyItem(s.db.QueryRowContext(ctx, query, item.Text, item.Translation, item.CreatedAt))
	if err == nil {
		log.Info("vocabulary item created",
			slog.Int64("item_id", created.ID),
			slog.String("text", created.Text))
		*item = *created
		return created, true, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to create vocabulary item",
			slog.String("error", err.Error()),
			slog.String("text", item.Text))
		return nil, false, MapError(err)
	}

	// Conflict: another writer stored the same text first.
	existing, err := s.GetByText(ctx, item.Text)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// UpdateTranslation implements store.VocabularyStore.UpdateTranslation
func (s *PostgresVocabularyStore) UpdateTranslation(ctx context.Context, id int64, translation string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if translation == "" {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrEmptyItemTranslation)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE vocabulary_items SET translation = $1 WHERE id = $2`, translation, id)
	if err != nil {
		log.Error("failed to update translation",
			slog.String("error", err.Error()),
			slog.Int64("item_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrVocabularyItemNotFound); err != nil {
		return err
	}

	log.Debug("translation updated", slog.Int64("item_id", id))
	return nil
}

// WithTx implements store.VocabularyStore.WithTx
func (s *PostgresVocabularyStore) WithTx(tx *sql.Tx) store.VocabularyStore {
	return &PostgresVocabularyStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresVocabularyStore) queryItems(
	ctx context.Context,
	op string,
	query string,
	args ...any,
) ([]*domain.VocabularyItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query vocabulary items",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*domain.VocabularyItem, 0)
	for rows.Next() {
		item, err := scanVocabularyItem(rows)
		if err != nil {
			return nil, MapError(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating vocabulary items",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return items, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanVocabularyItem(row rowScanner) (*domain.VocabularyItem, error) {
	var item domain.VocabularyItem
	if err := row.Scan(&item.ID, &item.Text, &item.Translation, &item.CreatedAt); err != nil {
		return nil, err
	}
	item.CreatedAt = item.CreatedAt.UTC()
	return &item, nil
}
