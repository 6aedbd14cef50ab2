package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingua-api/internal/api/shared"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
	"github.com/phrazzld/lingua-api/internal/service/study"
)

// StudyHandler serves study sessions, feedback and statistics.
type StudyHandler struct {
	studyService study.StudyService
	logger       *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(studyService study.StudyService, logger *slog.Logger) *StudyHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StudyHandler")
	}

	return &StudyHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "study_handler")),
	}
}

// GetCards handles GET /cards. An empty session is a 200 with no cards.
func (h *StudyHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cards, err := h.studyService.GetSession(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get study session")
		return
	}

	log.Debug("study session served", slog.Int("count", len(cards)))
	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponse(cards))
}

// UpdateProgress handles POST /cards/{id}/progress.
func (h *StudyHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	itemID, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	var req ProgressRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	result, err := h.studyService.UpdateProgress(r.Context(), itemID, domain.FeedbackAction(req.Action))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update progress")
		return
	}

	log.Debug("progress updated",
		slog.Int64("word_id", result.ItemID),
		slog.String("action", req.Action),
		slog.Float64("new_score", result.NewScore))
	shared.RespondWithJSON(w, r, http.StatusOK, progressResultToResponse(result))
}

// GetStats handles GET /stats.
func (h *StudyHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.studyService.GetStats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get learning statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, statsToResponse(stats))
}
