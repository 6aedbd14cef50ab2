// Package migrate applies the embedded goose schema migrations for the
// configured database driver.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/config"
	"github.com/phrazzld/lingua-api/internal/platform/postgres"
	"github.com/phrazzld/lingua-api/internal/platform/sqlite"
	"github.com/pressly/goose/v3"
)

// Supported commands
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// Source returns the goose dialect and migration files for driver.
func Source(driver string) (goose.Dialect, fs.FS, error) {
	switch driver {
	case config.DriverPostgres:
		return goose.DialectPostgres, postgres.Migrations(), nil
	case config.DriverSQLite:
		return goose.DialectSQLite3, sqlite.Migrations(), nil
	default:
		return "", nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Up applies all pending migrations.
func Up(ctx context.Context, db *sql.DB, driver string, logger *slog.Logger) error {
	return Run(ctx, db, driver, CommandUp, logger)
}

// Run executes a migration command against db. Every log line of one
// invocation shares a correlation ID.
func Run(ctx context.Context, db *sql.DB, driver, command string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("correlation_id", uuid.NewString()),
		slog.String("command", command),
		slog.String("driver", driver),
	)

	dialect, migrations, err := Source(driver)
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(dialect, db, migrations)
	if err != nil {
		log.Error("failed to create migration provider", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	start := time.Now()

	switch command {
	case CommandUp:
		results, err := provider.Up(ctx)
		for _, r := range results {
			logResult(log, r)
		}
		if err != nil {
			log.Error("migration up failed", slog.String("error", err.Error()))
			return fmt.Errorf("migration command '%s' failed: %w", command, err)
		}
		log.Info("migrations applied",
			slog.Int("applied", len(results)),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	case CommandDown:
		result, err := provider.Down(ctx)
		if result != nil {
			logResult(log, result)
		}
		if err != nil {
			log.Error("migration down failed", slog.String("error", err.Error()))
			return fmt.Errorf("migration command '%s' failed: %w", command, err)
		}

	case CommandStatus:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("migration command '%s' failed: %w", command, err)
		}
		for _, s := range statuses {
			log.Info("migration status",
				slog.Int64("version", s.Source.Version),
				slog.String("path", s.Source.Path),
				slog.String("state", string(s.State)))
		}

	case CommandVersion:
		version, err := provider.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("migration command '%s' failed: %w", command, err)
		}
		log.Info("current database version", slog.Int64("version", version))

	default:
		return fmt.Errorf("unknown migration command: %s (expected up, down, status or version)", command)
	}

	return nil
}

func logResult(log *slog.Logger, r *goose.MigrationResult) {
	attrs := []any{
		slog.Int64("version", r.Source.Version),
		slog.String("direction", r.Direction),
		slog.Int64("duration_ms", r.Duration.Milliseconds()),
	}
	if r.Error != nil {
		log.Error("migration failed", append(attrs, slog.String("error", r.Error.Error()))...)
		return
	}
	log.Info("migration applied", attrs...)
}
