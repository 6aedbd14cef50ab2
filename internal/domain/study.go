package domain

// StudyCard is the read-only view of an item presented in a session.
type StudyCard struct {
	ItemID      int64   `json:"id"`
	Text        string  `json:"word"`
	Translation string  `json:"translation"`
	Score       float64 `json:"score"`
}

// NewStudyCard joins a progress record with its vocabulary item.
func NewStudyCard(item *VocabularyItem, record *ProgressRecord) StudyCard {
	return StudyCard{
		ItemID:      item.ID,
		Text:        item.Text,
		Translation: item.Translation,
		Score:       record.Score,
	}
}

// LearningStats summarizes the learner's overall progress.
type LearningStats struct {
	TotalItems           int     `json:"total_words"`
	LearnedCount         int     `json:"learned_words"`
	InProgressCount      int     `json:"in_progress"`
	CompletionPercentage float64 `json:"completion_percentage"`
}
