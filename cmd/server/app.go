package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lingua-api/internal/config"
	"github.com/phrazzld/lingua-api/internal/domain/scoring"
	"github.com/phrazzld/lingua-api/internal/platform/gemini"
	"github.com/phrazzld/lingua-api/internal/platform/textsource"
	"github.com/phrazzld/lingua-api/internal/service"
	"github.com/phrazzld/lingua-api/internal/service/auth"
	"github.com/phrazzld/lingua-api/internal/service/study"
	"github.com/phrazzld/lingua-api/internal/store"
	"github.com/phrazzld/lingua-api/internal/translation"
)

// application holds the shared dependencies of the server so that they can
// be wired once and released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	vocabularyStore store.VocabularyStore
	progressStore   store.ProgressStore

	translator translation.Provider
	fetcher    *textsource.Fetcher

	studyService      study.StudyService
	vocabularyService service.VocabularyService

	// nil when authentication is disabled
	jwtService auth.JWTService
}

// newApplication wires every component on top of an open, migrated database.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.vocabularyStore, app.progressStore, err = newStores(cfg.Database.Driver, db, logger)
	if err != nil {
		return nil, err
	}

	policy, err := newScoringPolicy(cfg.Scoring)
	if err != nil {
		return nil, fmt.Errorf("failed to create scoring policy: %w", err)
	}

	app.studyService, err = study.NewStudyService(
		study.NewVocabularyRepositoryAdapter(app.vocabularyStore),
		study.NewProgressRepositoryAdapter(app.progressStore),
		store.NewTxRunner(db, nil),
		policy,
		cfg.Study.SessionSize,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create study service: %w", err)
	}

	app.translator, err = newTranslator(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create translation provider: %w", err)
	}

	app.fetcher = textsource.NewFetcher(textsource.OptionsFromConfig(cfg.Ingest), logger)

	app.vocabularyService, err = service.NewVocabularyService(
		app.vocabularyStore,
		app.fetcher,
		app.translator,
		cfg.Ingest.Workers,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vocabulary service: %w", err)
	}

	if cfg.Auth.Enabled() {
		app.jwtService, err = auth.NewJWTService(cfg.Auth)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
		}
		logger.Info("bearer token authentication enabled",
			slog.Duration("token_lifetime", cfg.Auth.TokenLifetime))
	}

	logger.Info("application initialized",
		slog.Int("session_size", cfg.Study.SessionSize),
		slog.String("translation_provider", cfg.Translation.Provider))
	return app, nil
}

// newScoringPolicy builds the scoring policy from configuration. Unset
// values keep the policy defaults.
func newScoringPolicy(cfg config.ScoringConfig) (scoring.Policy, error) {
	return scoring.NewPolicyWithParams(scoring.NewParams(scoring.ParamsConfig{
		KnowBonus:       cfg.KnowBonus,
		DontKnowPenalty: cfg.DontKnowPenalty,
		ScoreFloor:      cfg.ScoreFloor,
		RetireScore:     cfg.RetireScore,
		ActiveThreshold: cfg.ActiveThreshold,
	}))
}

// newTranslator returns the configured provider behind a translation cache.
func newTranslator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (translation.Provider, error) {
	var base translation.Provider

	switch cfg.Translation.Provider {
	case config.ProviderGemini:
		t, err := gemini.NewTranslator(ctx, logger, cfg.LLM, cfg.Translation)
		if err != nil {
			return nil, err
		}
		base = t
	case config.ProviderEcho:
		base = translation.EchoProvider{}
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", translation.ErrInvalidConfig, cfg.Translation.Provider)
	}

	return translation.NewCachedProvider(base, cfg.Translation.CacheTTL, logger), nil
}

// Run serves HTTP until ctx is canceled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
