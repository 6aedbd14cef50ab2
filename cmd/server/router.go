package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	"github.com/phrazzld/lingua-api/internal/api"
	apiMiddleware "github.com/phrazzld/lingua-api/internal/api/middleware"
	"github.com/phrazzld/lingua-api/internal/api/shared"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
)

// Service identity reported by GET /
const (
	serviceName    = "LinguaParser API"
	serviceVersion = "1.0.0"
)

// setupRouter creates the router with all middleware and routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// CORS first so that preflight requests are answered before routing.
	r.Use(handlers.CORS(
		handlers.AllowedOrigins(app.config.Server.CORSAllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.ExposedHeaders([]string{apiMiddleware.TraceIDHeader}),
	))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)

	studyHandler := api.NewStudyHandler(app.studyService, app.logger)
	vocabularyHandler := api.NewVocabularyHandler(app.vocabularyService, app.logger)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
			"message": serviceName,
			"version": serviceVersion,
		})
	})
	r.Get("/health", app.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		if app.jwtService != nil {
			r.Use(apiMiddleware.NewAuthMiddleware(app.jwtService, app.logger).Authenticate)
		}

		r.Post("/parse", vocabularyHandler.Parse)
		r.Get("/words", vocabularyHandler.ListWords)
		r.Put("/words/{id}", vocabularyHandler.UpdateTranslation)

		r.Get("/cards", studyHandler.GetCards)
		r.Post("/cards/{id}/progress", studyHandler.UpdateProgress)
		r.Get("/stats", studyHandler.GetStats)
	})

	return r
}

// handleHealth reports whether the database is reachable.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		logger.FromContextOrDefault(r.Context(), app.logger).Error("health check failed",
			slog.String("error", err.Error()))
		shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}
