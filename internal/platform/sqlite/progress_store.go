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

// ProgressStore implements store.ProgressStore on SQLite.
type ProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProgressStore creates a ProgressStore. If logger is nil, a default logger will be used.
func NewProgressStore(db store.DBTX, logger *slog.Logger) *ProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*ProgressStore)(nil)

const progressColumns = `id, item_id, score, last_reviewed_at`

// GetByItemID implements store.ProgressStore.
func (s *ProgressStore) GetByItemID(ctx context.Context, itemID int64) (*domain.ProgressRecord, error) {
	record, err := scanProgressRecord(s.db.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM progress_records WHERE item_id = ?`, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressRecordNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get progress record",
			slog.String("error", err.Error()),
			slog.Int64("item_id", itemID))
		return nil, MapError(err)
	}
	return record, nil
}

// GetByItemIDForUpdate implements store.ProgressStore. The enclosing
// transaction already holds the database write lock.
func (s *ProgressStore) GetByItemIDForUpdate(ctx context.Context, itemID int64) (*domain.ProgressRecord, error) {
	return s.GetByItemID(ctx, itemID)
}

// ListScoreBelow implements store.ProgressStore.
func (s *ProgressStore) ListScoreBelow(ctx context.Context, threshold float64) ([]*domain.ProgressRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+progressColumns+` FROM progress_records WHERE score < ? ORDER BY id`, threshold)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list progress records",
			slog.String("error", err.Error()),
			slog.Float64("threshold", threshold))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*domain.ProgressRecord, 0)
	for rows.Next() {
		record, err := scanProgressRecord(rows)
		if err != nil {
			return nil, MapError(err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return records, nil
}

// CountScoreAtLeast implements store.ProgressStore.
func (s *ProgressStore) CountScoreAtLeast(ctx context.Context, threshold float64) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM progress_records WHERE score >= ?`, threshold)
}

// CountScoreBelow implements store.ProgressStore.
func (s *ProgressStore) CountScoreBelow(ctx context.Context, threshold float64) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM progress_records WHERE score < ?`, threshold)
}

// CreateIfAbsent implements store.ProgressStore.
func (s *ProgressStore) CreateIfAbsent(ctx context.Context, record *domain.ProgressRecord) (bool, error) {
	if err := record.Validate(); err != nil {
		return false, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO progress_records (item_id, score, last_reviewed_at)
		VALUES (?, ?, ?)
		ON CONFLICT (item_id) DO NOTHING
		RETURNING id
	`

	var id int64
	err := s.db.QueryRowContext(ctx, query, record.ItemID, record.Score, record.LastReviewedAt).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create progress record",
			slog.String("error", err.Error()),
			slog.Int64("item_id", record.ItemID))
		return false, MapError(err)
	}

	record.ID = id
	return true, nil
}

// Upsert implements store.ProgressStore.
func (s *ProgressStore) Upsert(ctx context.Context, record *domain.ProgressRecord) (*domain.ProgressRecord, error) {
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO progress_records (item_id, score, last_reviewed_at)
		VALUES (?, ?, ?)
		ON CONFLICT (item_id) DO UPDATE
		SET score = excluded.score, last_reviewed_at = excluded.last_reviewed_at
		RETURNING ` + progressColumns

	saved, err := scanProgressRecord(s.db.QueryRowContext(ctx, query, record.ItemID, record.Score, record.LastReviewedAt))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to upsert progress record",
			slog.String("error", err.Error()),
			slog.Int64("item_id", record.ItemID))
		return nil, MapError(err)
	}
	return saved, nil
}

// WithTx implements store.ProgressStore.
func (s *ProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &ProgressStore{db: tx, logger: s.logger}
}

func (s *ProgressStore) count(ctx context.Context, query string, threshold float64) (int, error) {
	count, err := store.QueryCount(ctx, s.db, query, threshold)
	if err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

func scanProgressRecord(row rowScanner) (*domain.ProgressRecord, error) {
	var (
		record     domain.ProgressRecord
		reviewedAt timestamp
	)
	if err := row.Scan(&record.ID, &record.ItemID, &record.Score, &reviewedAt); err != nil {
		return nil, err
	}
	record.LastReviewedAt = reviewedAt.Time
	return &record, nil
}
