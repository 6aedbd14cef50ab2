package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingua-api/internal/api/shared"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
	"github.com/phrazzld/lingua-api/internal/service"
)

// VocabularyHandler serves word ingestion and the vocabulary list.
type VocabularyHandler struct {
	vocabularyService service.VocabularyService
	logger            *slog.Logger
}

// NewVocabularyHandler creates a new VocabularyHandler.
func NewVocabularyHandler(vocabularyService service.VocabularyService, logger *slog.Logger) *VocabularyHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for VocabularyHandler")
	}

	return &VocabularyHandler{
		vocabularyService: vocabularyService,
		logger:            logger.With(slog.String("component", "vocabulary_handler")),
	}
}

// Parse handles POST /parse. It extracts the words of a URL or of raw text
// and stores translations for the new ones.
func (h *VocabularyHandler) Parse(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ParseRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	result, err := h.vocabularyService.Ingest(r.Context(), service.IngestRequest{
		URL:  req.URL,
		Text: req.Text,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to parse content")
		return
	}

	log.Info("content parsed",
		slog.Int("count", result.Count),
		slog.Bool("from_url", req.URL != ""))
	shared.RespondWithJSON(w, r, http.StatusOK, parseResultToResponse(result))
}

// ListWords handles GET /words.
func (h *VocabularyHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	items, err := h.vocabularyService.ListItems(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list words")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, itemsToResponse(items))
}

// UpdateTranslation handles PUT /words/{id}.
func (h *VocabularyHandler) UpdateTranslation(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	itemID, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateTranslationRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	item, err := h.vocabularyService.UpdateTranslation(r.Context(), itemID, req.Translation)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update translation")
		return
	}

	log.Info("translation updated", slog.Int64("word_id", item.ID))
	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}
