package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeedbackAction(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"know", "dont_know", "remove"} {
		action, err := ParseFeedbackAction(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, FeedbackAction(raw), action)
		assert.True(t, action.IsValid())
	}

	for _, raw := range []string{"", "Know", "skip", "dont-know", " know"} {
		_, err := ParseFeedbackAction(raw)
		assert.ErrorIs(t, err, ErrInvalidAction, "input %q", raw)
	}
}

func TestNewProgressRecord(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	record, err := NewProgressRecord(42, now)
	require.NoError(t, err)
	assert.Equal(t, int64(42), record.ItemID)
	assert.Zero(t, record.Score)
	assert.Equal(t, time.UTC, record.LastReviewedAt.Location())
	assert.True(t, record.LastReviewedAt.Equal(now))

	_, err = NewProgressRecord(0, now)
	assert.ErrorIs(t, err, ErrInvalidProgressItemID)
}

func TestProgressRecordValidate(t *testing.T) {
	t.Parallel()

	record := ProgressRecord{ItemID: 1, Score: -0.5}
	assert.ErrorIs(t, record.Validate(), ErrNegativeScore)

	record.Score = 12.5
	assert.NoError(t, record.Validate())
}

func TestNewStudyCard(t *testing.T) {
	t.Parallel()

	item := &VocabularyItem{ID: 7, Text: "cat", Translation: "кот"}
	record := &ProgressRecord{ID: 3, ItemID: 7, Score: 2.5}

	card := NewStudyCard(item, record)
	assert.Equal(t, StudyCard{ItemID: 7, Text: "cat", Translation: "кот", Score: 2.5}, card)
}
