package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/lingua-api/internal/config"
	"github.com/phrazzld/lingua-api/internal/platform/postgres"
	"github.com/phrazzld/lingua-api/internal/platform/sqlite"
	"github.com/phrazzld/lingua-api/internal/store"
)

// setupAppDatabase opens the configured database, applies the pool settings
// and verifies the connection.
func setupAppDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err = sqlite.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		if cfg.URL == sqlite.MemoryPath {
			// Open pinned the pool to one connection.
			logger.Info("database connection established", slog.String("driver", cfg.Driver))
			return db, nil
		}

	case config.DriverPostgres:
		db, err = sql.Open("pgx", cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database connection: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		slog.String("driver", cfg.Driver),
		slog.Int("max_open_conns", cfg.MaxOpenConns))
	return db, nil
}

// newStores returns the store implementations for driver.
func newStores(
	driver string,
	db *sql.DB,
	logger *slog.Logger,
) (store.VocabularyStore, store.ProgressStore, error) {
	switch driver {
	case config.DriverSQLite:
		return sqlite.NewVocabularyStore(db, logger), sqlite.NewProgressStore(db, logger), nil
	case config.DriverPostgres:
		return postgres.NewPostgresVocabularyStore(db, logger), postgres.NewPostgresProgressStore(db, logger), nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
