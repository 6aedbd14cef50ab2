package study_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/domain/scoring"
	"github.com/phrazzld/lingua-api/internal/service/study"
	"github.com/phrazzld/lingua-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockVocabularyRepository is a mock implementation of study.VocabularyRepository
type MockVocabularyRepository struct {
	mock.Mock
}

func (m *MockVocabularyRepository) GetByID(ctx context.Context, id int64) (*domain.VocabularyItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VocabularyItem), args.Error(1)
}

func (m *MockVocabularyRepository) ListWithoutProgress(
	ctx context.Context,
	limit int,
) ([]*domain.VocabularyItem, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.VocabularyItem), args.Error(1)
}

func (m *MockVocabularyRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockVocabularyRepository) WithTx(*sql.Tx) study.VocabularyRepository {
	return m
}

// MockProgressRepository is a mock implementation of study.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) GetByItemID(ctx context.Context, itemID int64) (*domain.ProgressRecord, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressRecord), args.Error(1)
}

func (m *MockProgressRepository) GetByItemIDForUpdate(
	ctx context.Context,
	itemID int64,
) (*domain.ProgressRecord, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressRecord), args.Error(1)
}

func (m *MockProgressRepository) ListScoreBelow(
	ctx context.Context,
	threshold float64,
) ([]*domain.ProgressRecord, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ProgressRecord), args.Error(1)
}

func (m *MockProgressRepository) CountScoreAtLeast(ctx context.Context, threshold float64) (int, error) {
	args := m.Called(ctx, threshold)
	return args.Int(0), args.Error(1)
}

func (m *MockProgressRepository) CountScoreBelow(ctx context.Context, threshold float64) (int, error) {
	args := m.Called(ctx, threshold)
	return args.Int(0), args.Error(1)
}

func (m *MockProgressRepository) CreateIfAbsent(ctx context.Context, record *domain.ProgressRecord) (bool, error) {
	args := m.Called(ctx, record)
	return args.Bool(0), args.Error(1)
}

func (m *MockProgressRepository) Upsert(
	ctx context.Context,
	record *domain.ProgressRecord,
) (*domain.ProgressRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressRecord), args.Error(1)
}

func (m *MockProgressRepository) WithTx(*sql.Tx) study.ProgressRepository {
	return m
}

// inlineTxRunner runs the function without a database.
type inlineTxRunner struct {
	calls int
}

func (r *inlineTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	r.calls++
	return fn(ctx, nil)
}

func newMockService(t *testing.T) (study.StudyService, *MockVocabularyRepository, *MockProgressRepository, *inlineTxRunner) {
	t.Helper()
	vocab := &MockVocabularyRepository{}
	progress := &MockProgressRepository{}
	runner := &inlineTxRunner{}
	svc, err := study.NewStudyService(vocab, progress, runner, scoring.NewDefaultPolicy(), 3, nil)
	require.NoError(t, err)
	return svc, vocab, progress, runner
}

func TestUpdateProgress_Mocked(t *testing.T) {
	t.Parallel()

	t.Run("invalid action skips the transaction", func(t *testing.T) {
		svc, vocab, progress, runner := newMockService(t)

		_, err := svc.UpdateProgress(context.Background(), 1, domain.FeedbackAction(""))
		assert.ErrorIs(t, err, study.ErrInvalidAction)
		assert.Equal(t, 0, runner.calls)
		vocab.AssertExpectations(t)
		progress.AssertExpectations(t)
	})

	t.Run("record vanishes before lock", func(t *testing.T) {
		svc, vocab, progress, _ := newMockService(t)
		ctx := context.Background()

		vocab.On("GetByID", ctx, int64(1)).Return(&domain.VocabularyItem{ID: 1, Text: "cat"}, nil)
		progress.On("CreateIfAbsent", ctx, mock.AnythingOfType("*domain.ProgressRecord")).Return(false, nil)
		progress.On("GetByItemIDForUpdate", ctx, int64(1)).Return(nil, store.ErrProgressRecordNotFound)

		_, err := svc.UpdateProgress(ctx, 1, domain.ActionKnow)
		assert.ErrorIs(t, err, study.ErrConcurrentModification)
		progress.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("item deleted between read and insert", func(t *testing.T) {
		svc, vocab, progress, _ := newMockService(t)
		ctx := context.Background()

		vocab.On("GetByID", ctx, int64(2)).Return(&domain.VocabularyItem{ID: 2, Text: "dog"}, nil)
		progress.On("CreateIfAbsent", ctx, mock.Anything).Return(false, store.ErrForeignKeyViolation)

		_, err := svc.UpdateProgress(ctx, 2, domain.ActionKnow)
		assert.ErrorIs(t, err, study.ErrNotFound)
	})

	t.Run("storage errors propagate", func(t *testing.T) {
		svc, vocab, progress, _ := newMockService(t)
		ctx := context.Background()
		dbErr := errors.New("disk I/O error")

		vocab.On("GetByID", ctx, int64(3)).Return(&domain.VocabularyItem{ID: 3, Text: "owl"}, nil)
		progress.On("CreateIfAbsent", ctx, mock.Anything).Return(true, nil)
		progress.On("GetByItemIDForUpdate", ctx, int64(3)).
			Return(&domain.ProgressRecord{ID: 9, ItemID: 3, Score: 6.5}, nil)
		progress.On("Upsert", ctx, mock.Anything).Return(nil, dbErr)

		_, err := svc.UpdateProgress(ctx, 3, domain.ActionKnow)
		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)

		var serviceErr *study.ServiceError
		require.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, "update_progress", serviceErr.Operation)
	})

	t.Run("applies policy to locked score", func(t *testing.T) {
		svc, vocab, progress, _ := newMockService(t)
		ctx := context.Background()

		vocab.On("GetByID", ctx, int64(4)).Return(&domain.VocabularyItem{ID: 4, Text: "fox"}, nil)
		progress.On("CreateIfAbsent", ctx, mock.Anything).Return(false, nil)
		progress.On("GetByItemIDForUpdate", ctx, int64(4)).
			Return(&domain.ProgressRecord{ID: 5, ItemID: 4, Score: 6.5}, nil)
		progress.On("Upsert", ctx, mock.MatchedBy(func(r *domain.ProgressRecord) bool {
			return r.ItemID == 4 && r.Score == 7.5 && !r.LastReviewedAt.IsZero()
		})).Return(&domain.ProgressRecord{ID: 5, ItemID: 4, Score: 7.5}, nil)

		res, err := svc.UpdateProgress(ctx, 4, domain.ActionKnow)
		require.NoError(t, err)
		assert.Equal(t, 7.5, res.NewScore)
		progress.AssertExpectations(t)
	})
}

func TestGetSession_Mocked(t *testing.T) {
	t.Parallel()

	t.Run("dedupes and drops orphaned records", func(t *testing.T) {
		svc, vocab, progress, _ := newMockService(t)
		ctx := context.Background()

		progress.On("ListScoreBelow", ctx, 7.0).Return([]*domain.ProgressRecord{
			{ID: 1, ItemID: 10, Score: 1},
			{ID: 2, ItemID: 11, Score: 2},
		}, nil)
		vocab.On("ListWithoutProgress", ctx, 1).Return([]*domain.VocabularyItem{{ID: 10, Text: "dup"}}, nil)
		progress.On("CreateIfAbsent", ctx, mock.Anything).Return(false, nil)
		progress.On("GetByItemID", ctx, int64(10)).Return(&domain.ProgressRecord{ID: 1, ItemID: 10, Score: 1}, nil)
		vocab.On("GetByID", ctx, int64(11)).Return(nil, store.ErrVocabularyItemNotFound)

		cards, err := svc.GetSession(ctx)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, int64(10), cards[0].ItemID)
		assert.Equal(t, "dup", cards[0].Text)
	})

	t.Run("list error is wrapped", func(t *testing.T) {
		svc, _, progress, _ := newMockService(t)
		ctx := context.Background()
		dbErr := errors.New("connection reset")

		progress.On("ListScoreBelow", ctx, 7.0).Return(nil, dbErr)

		_, err := svc.GetSession(ctx)
		assert.ErrorIs(t, err, dbErr)
		var serviceErr *study.ServiceError
		require.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, "get_session", serviceErr.Operation)
	})
}

func TestGetStats_Mocked(t *testing.T) {
	t.Parallel()

	svc, vocab, progress, _ := newMockService(t)
	ctx := context.Background()
	vocab.On("Count", ctx).Return(7, nil)
	progress.On("CountScoreAtLeast", ctx, 10.0).Return(2, nil)
	progress.On("CountScoreBelow", ctx, 7.0).Return(4, nil)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 28.57, stats.CompletionPercentage)
	assert.Equal(t, 4, stats.InProgressCount)
}
