package api

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
	"github.com/phrazzld/lingua-api/internal/service"
	"github.com/phrazzld/lingua-api/internal/service/study"
	"github.com/stretchr/testify/mock"
)

func testHandlerLogger(t *testing.T) *slog.Logger {
	t.Helper()
	l, _ := logger.NewTestLogger(t)
	return l
}

type mockStudyService struct {
	mock.Mock
}

func (m *mockStudyService) GetSession(ctx context.Context) ([]domain.StudyCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StudyCard), args.Error(1)
}

func (m *mockStudyService) PlanSession(ctx context.Context) (*study.SessionPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*study.SessionPlan), args.Error(1)
}

func (m *mockStudyService) MaterializeSession(ctx context.Context, plan *study.SessionPlan) ([]domain.StudyCard, error) {
	args := m.Called(ctx, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StudyCard), args.Error(1)
}

func (m *mockStudyService) UpdateProgress(
	ctx context.Context,
	itemID int64,
	action domain.FeedbackAction,
) (*study.ProgressResult, error) {
	args := m.Called(ctx, itemID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*study.ProgressResult), args.Error(1)
}

func (m *mockStudyService) GetStats(ctx context.Context) (*domain.LearningStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LearningStats), args.Error(1)
}

type mockVocabularyService struct {
	mock.Mock
}

func (m *mockVocabularyService) Ingest(ctx context.Context, req service.IngestRequest) (*service.IngestResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IngestResult), args.Error(1)
}

func (m *mockVocabularyService) ListItems(ctx context.Context) ([]*domain.VocabularyItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.VocabularyItem), args.Error(1)
}

func (m *mockVocabularyService) UpdateTranslation(
	ctx context.Context,
	id int64,
	translation string,
) (*domain.VocabularyItem, error) {
	args := m.Called(ctx, id, translation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VocabularyItem), args.Error(1)
}
