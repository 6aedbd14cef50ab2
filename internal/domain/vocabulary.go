package domain

import (
	"errors"
	"strings"
	"time"
)

// Validation errors for VocabularyItem
var (
	ErrEmptyItemText        = errors.New("vocabulary item text cannot be empty")
	ErrItemTextNotNormal    = errors.New("vocabulary item text must be trimmed and lower-case")
	ErrEmptyItemTranslation = errors.New("vocabulary item translation cannot be empty")
)

// VocabularyItem is a distinct word known to the system together with its
// canonical translation. Text is stored normalized, so two submissions that
// differ only by case or surrounding whitespace map to the same item.
type VocabularyItem struct {
	ID          int64     `json:"id"`
	Text        string    `json:"word"`
	Translation string    `json:"translation"`
	CreatedAt   time.Time `json:"created_at"`
}

// NormalizeText folds text into the form stored in VocabularyItem.Text.
func NormalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// NewVocabularyItem creates an unsaved VocabularyItem. The text is normalized
// before validation; the ID is assigned by the store.
func NewVocabularyItem(text, translation string) (*VocabularyItem, error) {
	item := &VocabularyItem{
		Text:        NormalizeText(text),
		Translation: strings.TrimSpace(translation),
		CreatedAt:   time.Now().UTC(),
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the VocabularyItem has valid data.
func (v *VocabularyItem) Validate() error {
	if v.Text == "" {
		return ErrEmptyItemText
	}

	if v.Text != NormalizeText(v.Text) {
		return ErrItemTextNotNormal
	}

	if strings.TrimSpace(v.Translation) == "" {
		return ErrEmptyItemTranslation
	}

	return nil
}
