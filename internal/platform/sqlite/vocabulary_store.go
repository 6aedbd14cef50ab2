package sqlite

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

// VocabularyStore implements store.VocabularyStore on SQLite.
type VocabularyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewVocabularyStore creates a VocabularyStore. If logger is nil, a default logger will be used.
func NewVocabularyStore(db store.DBTX, logger *slog.Logger) *VocabularyStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &VocabularyStore{
		db:     db,
		logger: logger.With(slog.String("component", "vocabulary_store")),
	}
}

var _ store.VocabularyStore = (*VocabularyStore)(nil)

const vocabularyColumns = `id, text, translation, created_at`

// GetByID implements store.VocabularyStore.
func (s *VocabularyStore) GetByID(ctx context.Context, id int64) (*domain.VocabularyItem, error) {
	return s.getOne(ctx, `SELECT `+vocabularyColumns+` FROM vocabulary_items WHERE id = ?`, id)
}

// GetByText implements store.VocabularyStore.
func (s *VocabularyStore) GetByText(ctx context.Context, text string) (*domain.VocabularyItem, error) {
	return s.getOne(ctx, `SELECT `+vocabularyColumns+` FROM vocabulary_items WHERE text = ?`,
		domain.NormalizeText(text))
}

// List implements store.VocabularyStore.
func (s *VocabularyStore) List(ctx context.Context) ([]*domain.VocabularyItem, error) {
	return s.queryItems(ctx, `SELECT `+vocabularyColumns+` FROM vocabulary_items ORDER BY id`)
}

// ListWithoutProgress implements store.VocabularyStore.
func (s *VocabularyStore) ListWithoutProgress(ctx context.Context, limit int) ([]*domain.VocabularyItem, error) {
	if limit <= 0 {
		return []*domain.VocabularyItem{}, nil
	}
	query := `
		SELECT v.id, v.text, v.translation, v.created_at
		FROM vocabulary_items v
		LEFT JOIN progress_records p ON p.item_id = v.id
		WHERE p.id IS NULL
		ORDER BY v.id
		LIMIT ?
	`
	return s.queryItems(ctx, query, limit)
}

// Count implements store.VocabularyStore.
func (s *VocabularyStore) Count(ctx context.Context) (int, error) {
	count, err := store.QueryCount(ctx, s.db, `SELECT COUNT(*) FROM vocabulary_items`)
	if err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// CreateOrGet implements store.VocabularyStore.
func (s *VocabularyStore) CreateOrGet(
	ctx context.Context,
	item *domain.VocabularyItem,
) (*domain.VocabularyItem, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO vocabulary_items (text, translation, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (text) DO NOTHING
		RETURNING ` + vocabularyColumns

	created, err := scanVocabularyItem(s.db.QueryRowContext(ctx, query, item.Text, item.Translation, item.CreatedAt))
	switch {
	case err == nil:
		log.Info("vocabulary item created",
			slog.Int64("item_id", created.ID),
			slog.String("text", created.Text))
		*item = *created
		return created, true, nil
	case errors.Is(err, sql.ErrNoRows):
		existing, err := s.GetByText(ctx, item.Text)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	default:
		log.Error("failed to create vocabulary item",
			slog.String("error", err.Error()),
			slog.String("text", item.Text))
		return nil, false, MapError(err)
	}
}

// UpdateTranslation implements store.VocabularyStore.
func (s *VocabularyStore) UpdateTranslation(ctx context.Context, id int64, translation string) error {
	if translation == "" {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrEmptyItemTranslation)
	}

	result, err := s.db.ExecContext(ctx, `UPDATE vocabulary_items SET translation = ? WHERE id = ?`, translation, id)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrVocabularyItemNotFound
	}
	return nil
}

// WithTx implements store.VocabularyStore.
func (s *VocabularyStore) WithTx(tx *sql.Tx) store.VocabularyStore {
	return &VocabularyStore{db: tx, logger: s.logger}
}

func (s *VocabularyStore) getOne(ctx context.Context, query string, arg any) (*domain.VocabularyItem, error) {
	item, err := scanVocabularyItem(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrVocabularyItemNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get vocabulary item",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return item, nil
}

func (s *VocabularyStore) queryItems(ctx context.Context, query string, args ...any) ([]*domain.VocabularyItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query vocabulary items",
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
		return nil, MapError(err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVocabularyItem(row rowScanner) (*domain.VocabularyItem, error) {
	var (
		item      domain.VocabularyItem
		createdAt timestamp
	)
	if err := row.Scan(&item.ID, &item.Text, &item.Translation, &createdAt); err != nil {
		return nil, err
	}
	item.CreatedAt = createdAt.Time
	return &item, nil
}
