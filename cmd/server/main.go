// Package main implements the entry point for the Lingua API server, which
// extracts vocabulary from web pages and text, translates it and schedules
// study sessions for a single learner.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/lingua-api/internal/config"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
	"github.com/phrazzld/lingua-api/internal/platform/migrate"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, status, version) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		fmt.Fprintf(os.Stderr, "lingua-api: %v\n", err)
		os.Exit(1)
	}
}

// run loads configuration, connects to the database and either executes a
// migration command or migrates up and serves until SIGINT or SIGTERM.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("translation_provider", cfg.Translation.Provider),
		slog.Bool("auth_enabled", cfg.Auth.Enabled()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg.Database, l)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() { _ = db.Close() }()
		return migrate.Run(ctx, db, cfg.Database.Driver, migrateCmd, l)
	}

	if err := migrate.Up(ctx, db, cfg.Database.Driver, l); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	app, err := newApplication(ctx, cfg, l, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
