package api

import (
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/service"
	"github.com/phrazzld/lingua-api/internal/service/study"
)

// ParseRequest defines the payload of POST /parse. Exactly one of URL and
// Text must be set; the service enforces that.
type ParseRequest struct {
	URL  string `json:"url"  validate:"omitempty,max=2048"`
	Text string `json:"text"`
}

// ParseResponse reports the words extracted by POST /parse.
type ParseResponse struct {
	Words        []string          `json:"words"`
	Count        int               `json:"count"`
	Message      string            `json:"message"`
	Translations map[string]string `json:"translations"`
}

// ProgressRequest defines the payload of POST /cards/{id}/progress.
// The action itself is checked by the study service.
type ProgressRequest struct {
	Action string `json:"action" validate:"required"`
}

// ProgressResponse is the outcome of a feedback action.
type ProgressResponse struct {
	WordID   int64   `json:"word_id"`
	NewScore float64 `json:"new_score"`
	Message  string  `json:"message"`
}

// StudyCardResponse is one card of a study session.
type StudyCardResponse struct {
	ID          int64   `json:"id"`
	Word        string  `json:"word"`
	Translation string  `json:"translation"`
	Score       float64 `json:"score"`
}

// StudySessionResponse is the response of GET /cards.
type StudySessionResponse struct {
	Cards []StudyCardResponse `json:"cards"`
	Count int                 `json:"count"`
}

// StatsResponse is the response of GET /stats.
type StatsResponse struct {
	TotalWords           int     `json:"total_words"`
	LearnedWords         int     `json:"learned_words"`
	InProgress           int     `json:"in_progress"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// WordResponse is one vocabulary item.
type WordResponse struct {
	ID          int64  `json:"id"`
	Word        string `json:"word"`
	Translation string `json:"translation"`
}

// WordsResponse is the response of GET /words.
type WordsResponse struct {
	Words []WordResponse `json:"words"`
}

// UpdateTranslationRequest defines the payload of PUT /words/{id}.
type UpdateTranslationRequest struct {
	Translation string `json:"translation" validate:"required,max=500"`
}

func parseResultToResponse(result *service.IngestResult) ParseResponse {
	words := result.Words
	if words == nil {
		words = []string{}
	}
	translations := result.Translations
	if translations == nil {
		translations = map[string]string{}
	}
	return ParseResponse{
		Words:        words,
		Count:        result.Count,
		Message:      result.Message,
		Translations: translations,
	}
}

func progressResultToResponse(result *study.ProgressResult) ProgressResponse {
	return ProgressResponse{
		WordID:   result.ItemID,
		NewScore: result.NewScore,
		Message:  result.Message,
	}
}

func cardsToResponse(cards []domain.StudyCard) StudySessionResponse {
	resp := StudySessionResponse{
		Cards: make([]StudyCardResponse, 0, len(cards)),
		Count: len(cards),
	}
	for _, c := range cards {
		resp.Cards = append(resp.Cards, StudyCardResponse{
			ID:          c.ItemID,
			Word:        c.Text,
			Translation: c.Translation,
			Score:       c.Score,
		})
	}
	return resp
}

func statsToResponse(stats *domain.LearningStats) StatsResponse {
	return StatsResponse{
		TotalWords:           stats.TotalItems,
		LearnedWords:         stats.LearnedCount,
		InProgress:           stats.InProgressCount,
		CompletionPercentage: stats.CompletionPercentage,
	}
}

func itemToResponse(item *domain.VocabularyItem) WordResponse {
	return WordResponse{
		ID:          item.ID,
		Word:        item.Text,
		Translation: item.Translation,
	}
}

func itemsToResponse(items []*domain.VocabularyItem) WordsResponse {
	resp := WordsResponse{Words: make([]WordResponse, 0, len(items))}
	for _, item := range items {
		resp.Words = append(resp.Words, itemToResponse(item))
	}
	return resp
}
