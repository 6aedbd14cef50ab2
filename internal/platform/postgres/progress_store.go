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

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the ProgressStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

const progressColumns = `id, item_id, score, last_reviewed_at`

// GetByItemID implements store.ProgressStore.GetByItemID
func (s *PostgresProgressStore) GetByItemID(ctx context.Context, itemID int64) (*domain.ProgressRecord, error) {
	query := `SELECT ` + progressColumns + ` FROM progress_records WHERE item_id = $1`
	return s.getOne(ctx, query, itemID)
}

// GetByItemIDForUpdate implements store.ProgressStore.GetByItemIDForUpdate.
// The row stays locked until the caller's transaction commits or rolls back.
func (s *PostgresProgressStore) GetByItemIDForUpdate(
	ctx context.Context,
	itemID int64,
) (*domain.ProgressRecord, error) {
	query := `SELECT ` + progressColumns + ` FROM progress_records WHERE item_id = $1 FOR UPDATE`
	return s.getOne(ctx, query, itemID)
}

// ListScoreBelow implements store.ProgressStore.ListScoreBelow
func (s *PostgresProgressStore) ListScoreBelow(
	ctx context.Context,
	threshold float64,
) ([]*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + progressColumns + ` FROM progress_records WHERE score < $1 ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, threshold)
	if err != nil {
		log.Error("failed to list progress records",
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
		log.Error("error iterating progress records", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return records, nil
}

// CountScoreAtLeast implements store.ProgressStore.CountScoreAtLeast
func (s *PostgresProgressStore) CountScoreAtLeast(ctx context.Context, threshold float64) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM progress_records WHERE score >= $1`, threshold)
}

// CountScoreBelow implements store.ProgressStore.CountScoreBelow
func (s *PostgresProgressStore) CountScoreBelow(ctx context.Context, threshold float64) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM progress_records WHERE score < $1`, threshold)
}

// CreateIfAbsent implements store.ProgressStore.CreateIfAbsent
func (s *PostgresProgressStore) CreateIfAbsent(ctx context.Context, record *domain.ProgressRecord) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		return false, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO progress_records (item_id, score, last_reviewed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (item_id) DO NOTHING
		RETURNING id
	`

	var id int64
	err := s.db.QueryRowContext(ctx, query, record.ItemID, record.Score, record.LastReviewedAt).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("progress record already exists", slog.Int64("item_id", record.ItemID))
			return false, nil
		}
		log.Error("failed to create progress record",
			slog.String("error", err.Error()),
			slog.Int64("item_id", record.ItemID))
		return false, MapError(err)
	}

	record.ID = id
	log.Debug("progress record created",
		slog.Int64("record_id", id),
		slog.Int64("item_id", record.ItemID))
	return true, nil
}

// Upsert implements store.ProgressStore.Upsert
func (s *PostgresProgressStore) Upsert(
	ctx context.Context,
	record *domain.ProgressRecord,
) (*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO progress_records (item_id, score, last_reviewed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (item_id) DO UPDATE
		SET score = EXCLUDED.score, last_reviewed_at = EXCLUDED.last_reviewed_at
		RETURNING ` + progressColumns

	saved, err := scanProgressRecord(
		s.db.QueryRowContext(ctx, query, record.ItemID, record.Score, record.LastReviewedAt),
	)
	if err != nil {
		log.Error("failed to upsert progress record",
			slog.String("error", err.Error()),
			slog.Int64("item_id", record.ItemID))
		return nil, MapError(err)
	}

	log.Debug("progress record saved",
		slog.Int64("item_id", saved.ItemID),
		slog.Float64("score", saved.Score))
	return saved, nil
}

// WithTx implements store.ProgressStore.WithTx
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresProgressStore) getOne(ctx context.Context, query string, itemID int64) (*domain.ProgressRecord, error) {
	record, err := scanProgressRecord(s.db.QueryRowContext(ctx, query, itemID))
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

func (s *PostgresProgressStore) count(ctx context.Context, query string, threshold float64) (int, error) {
	count, err := store.QueryCount(ctx, s.db, query, threshold)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count progress records",
			slog.String("error", err.Error()),
			slog.Float64("threshold", threshold))
		return 0, MapError(err)
	}
	return count, nil
}

func scanProgressRecord(row rowScanner) (*domain.ProgressRecord, error) {
	var record domain.ProgressRecord
	if err := row.Scan(&record.ID, &record.ItemID, &record.Score, &record.LastReviewedAt); err != nil {
		return nil, err
	}
	record.LastReviewedAt = record.LastReviewedAt.UTC()
	return &record, nil
}
