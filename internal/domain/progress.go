package domain

import (
	"errors"
	"time"
)

// FeedbackAction is the learner's response to a presented item.
type FeedbackAction string

// Supported feedback actions
const (
	ActionKnow     FeedbackAction = "know"
	ActionDontKnow FeedbackAction = "dont_know"
	ActionRemove   FeedbackAction = "remove"
)

// IsValid reports whether a is one of the supported actions.
func (a FeedbackAction) IsValid() bool {
	switch a {
	case ActionKnow, ActionDontKnow, ActionRemove:
		return true
	default:
		return false
	}
}

// ParseFeedbackAction converts raw input into a FeedbackAction.
// Matching is exact; "Know" is not a valid action.
func ParseFeedbackAction(raw string) (FeedbackAction, error) {
	action := FeedbackAction(raw)
	if !action.IsValid() {
		return "", ErrInvalidAction
	}
	return action, nil
}

// Validation errors for ProgressRecord
var (
	ErrInvalidProgressItemID = errors.New("progress record item ID must be positive")
	ErrNegativeScore         = errors.New("progress record score cannot be negative")
)

// ProgressRecord holds the mastery score for exactly one VocabularyItem.
// A record is created lazily the first time an item is scheduled or reviewed.
type ProgressRecord struct {
	ID             int64     `json:"id"`
	ItemID         int64     `json:"word_id"`
	Score          float64   `json:"score"`
	LastReviewedAt time.Time `json:"last_reviewed"`
}

// NewProgressRecord creates an unsaved record for itemID at score zero.
func NewProgressRecord(itemID int64, now time.Time) (*ProgressRecord, error) {
	record := &ProgressRecord{
		ItemID:         itemID,
		Score:          0,
		LastReviewedAt: now.UTC(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the ProgressRecord has valid data.
func (p *ProgressRecord) Validate() error {
	if p.ItemID <= 0 {
		return ErrInvalidProgressItemID
	}

	if p.Score < 0 {
		return ErrNegativeScore
	}

	return nil
}
