package study

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/domain/scoring"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
	"github.com/phrazzld/lingua-api/internal/store"
)

// Verify interface compliance at compile time
var _ StudyService = (*studyServiceImpl)(nil)

// Feedback messages returned by UpdateProgress.
const (
	MessageKnow     = "Great! You know this word better now"
	MessageDontKnow = "Not quite, try again"
	MessageRemove   = "The word has been removed from study"
)

type studyServiceImpl struct {
	vocabRepo    VocabularyRepository
	progressRepo ProgressRepository
	txRunner     store.TxRunner
	policy       scoring.Policy
	sessionSize  int
	now          func() time.Time
	logger       *slog.Logger
}

// NewStudyService creates a StudyService. sessionSize must be positive.
func NewStudyService(
	vocabRepo VocabularyRepository,
	progressRepo ProgressRepository,
	txRunner store.TxRunner,
	policy scoring.Policy,
	sessionSize int,
	logger *slog.Logger,
) (StudyService, error) {
	if vocabRepo == nil {
		return nil, domain.NewValidationError("vocabRepo", "cannot be nil", domain.ErrValidation)
	}
	if progressRepo == nil {
		return nil, domain.NewValidationError("progressRepo", "cannot be nil", domain.ErrValidation)
	}
	if txRunner == nil {
		return nil, domain.NewValidationError("txRunner", "cannot be nil", domain.ErrValidation)
	}
	if policy == nil {
		return nil, domain.NewValidationError("policy", "cannot be nil", domain.ErrValidation)
	}
	if sessionSize <= 0 {
		return nil, domain.NewValidationError("sessionSize", "must be positive", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &studyServiceImpl{
		vocabRepo:    vocabRepo,
		progressRepo: progressRepo,
		txRunner:     txRunner,
		policy:       policy,
		sessionSize:  sessionSize,
		now:          func() time.Time { return time.Now().UTC() },
		logger:       logger.With(slog.String("component", "study_service")),
	}, nil
}

// GetSession implements StudyService.GetSession.
func (s *studyServiceImpl) GetSession(ctx context.Context) ([]domain.StudyCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var cards []domain.StudyCard
	err := s.runInTransaction(ctx, func(ctx context.Context, vocab VocabularyRepository, progress ProgressRepository) error {
		plan, err := s.plan(ctx, vocab, progress)
		if err != nil {
			return err
		}
		cards, err = s.materialize(ctx, vocab, progress, plan)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrConcurrentModification) {
			return nil, err
		}
		log.Error("failed to build study session", slog.String("error", err.Error()))
		return nil, NewGetSessionError("failed to build study session", err)
	}

	log.Debug("study session built", slog.Int("cards", len(cards)))
	return cards, nil
}

// PlanSession implements StudyService.PlanSession.
func (s *studyServiceImpl) PlanSession(ctx context.Context) (*SessionPlan, error) {
	plan, err := s.plan(ctx, s.vocabRepo, s.progressRepo)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to plan study session",
			slog.String("error", err.Error()))
		return nil, NewGetSessionError("failed to plan study session", err)
	}
	return plan, nil
}

// MaterializeSession implements StudyService.MaterializeSession.
func (s *studyServiceImpl) MaterializeSession(ctx context.Context, plan *SessionPlan) ([]domain.StudyCard, error) {
	if plan == nil {
		return []domain.StudyCard{}, nil
	}

	var cards []domain.StudyCard
	err := s.runInTransaction(ctx, func(ctx context.Context, vocab VocabularyRepository, progress ProgressRepository) error {
		var err error
		cards, err = s.materialize(ctx, vocab, progress, plan)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrConcurrentModification) {
			return nil, err
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to materialize study session",
			slog.String("error", err.Error()))
		return nil, NewGetSessionError("failed to materialize study session", err)
	}
	return cards, nil
}

func (s *studyServiceImpl) plan(
	ctx context.Context,
	vocab VocabularyRepository,
	progress ProgressRepository,
) (*SessionPlan, error) {
	params := s.policy.Params()

	active, err := progress.ListScoreBelow(ctx, params.ActiveThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list active records: %w", err)
	}

	plan := &SessionPlan{Active: active, Candidates: []*domain.VocabularyItem{}}
	if needed := s.sessionSize - len(active); needed > 0 {
		plan.Candidates, err = vocab.ListWithoutProgress(ctx, needed)
		if err != nil {
			return nil, fmt.Errorf("failed to list unseen items: %w", err)
		}
	}
	return plan, nil
}

func (s *studyServiceImpl) materialize(
	ctx context.Context,
	vocab VocabularyRepository,
	progress ProgressRepository,
	plan *SessionPlan,
) ([]domain.StudyCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	known := make(map[int64]*domain.VocabularyItem, len(plan.Candidates))
	records := make([]*domain.ProgressRecord, 0, len(plan.Active)+len(plan.Candidates))
	records = append(records, plan.Active...)

	for _, item := range plan.Candidates {
		record, err := domain.NewProgressRecord(item.ID, s.now())
		if err != nil {
			return nil, fmt.Errorf("invalid session candidate: %w", err)
		}
		created, err := progress.CreateIfAbsent(ctx, record)
		if err != nil {
			if errors.Is(err, store.ErrForeignKeyViolation) {
				log.Warn("skipping deleted vocabulary item", slog.Int64("item_id", item.ID))
				continue
			}
			return nil, fmt.Errorf("failed to create progress record: %w", err)
		}
		if !created {
			// Created by a concurrent session; use the stored record.
			record, err = progress.GetByItemID(ctx, item.ID)
			if err != nil {
				if errors.Is(err, store.ErrProgressRecordNotFound) {
					return nil, fmt.Errorf("%w: progress record for item %d", ErrConcurrentModification, item.ID)
				}
				return nil, fmt.Errorf("failed to re-read progress record: %w", err)
			}
		}
		known[item.ID] = item
		records = append(records, record)
	}

	records = dedupeByItem(records)
	rand.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})
	if len(records) > s.sessionSize {
		records = records[:s.sessionSize]
	}

	cards := make([]domain.StudyCard, 0, len(records))
	for _, record := range records {
		item, ok := known[record.ItemID]
		if !ok {
			var err error
			item, err = vocab.GetByID(ctx, record.ItemID)
			if err != nil {
				if errors.Is(err, store.ErrVocabularyItemNotFound) {
					log.Warn("dropping progress record without vocabulary item",
						slog.Int64("item_id", record.ItemID))
					continue
				}
				return nil, fmt.Errorf("failed to load vocabulary item: %w", err)
			}
		}
		cards = append(cards, domain.NewStudyCard(item, record))
	}
	return cards, nil
}

// dedupeByItem keeps the first record of each item, preserving order.
func dedupeByItem(records []*domain.ProgressRecord) []*domain.ProgressRecord {
	seen := make(map[int64]struct{}, len(records))
	out := records[:0]
	for _, r := range records {
		if _, ok := seen[r.ItemID]; ok {
			continue
		}
		seen[r.ItemID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// UpdateProgress implements StudyService.UpdateProgress.
func (s *studyServiceImpl) UpdateProgress(
	ctx context.Context,
	itemID int64,
	action domain.FeedbackAction,
) (*ProgressResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.Int64("item_id", itemID),
		slog.String("action", string(action)))

	if !action.IsValid() {
		log.Warn("invalid feedback action")
		return nil, ErrInvalidAction
	}

	var saved *domain.ProgressRecord
	err := s.runInTransaction(ctx, func(ctx context.Context, vocab VocabularyRepository, progress ProgressRepository) error {
		if _, err := vocab.GetByID(ctx, itemID); err != nil {
			if errors.Is(err, store.ErrVocabularyItemNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get vocabulary item: %w", err)
		}

		fresh, err := domain.NewProgressRecord(itemID, s.now())
		if err != nil {
			return err
		}
		if _, err := progress.CreateIfAbsent(ctx, fresh); err != nil {
			if errors.Is(err, store.ErrForeignKeyViolation) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to create progress record: %w", err)
		}

		record, err := progress.GetByItemIDForUpdate(ctx, itemID)
		if err != nil {
			if errors.Is(err, store.ErrProgressRecordNotFound) {
				return ErrConcurrentModification
			}
			return fmt.Errorf("failed to lock progress record: %w", err)
		}

		score, err := s.policy.Apply(record.Score, action)
		if err != nil {
			return err
		}
		record.Score = score
		record.LastReviewedAt = s.now()

		saved, err = progress.Upsert(ctx, record)
		if err != nil {
			return fmt.Errorf("failed to save progress record: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) ||
			errors.Is(err, ErrInvalidAction) ||
			errors.Is(err, ErrConcurrentModification) {
			log.Debug("progress update rejected", slog.String("error", err.Error()))
			return nil, err
		}
		log.Error("failed to update progress", slog.String("error", err.Error()))
		return nil, NewUpdateProgressError("failed to update progress", err)
	}

	params := s.policy.Params()
	log.Debug("progress updated",
		slog.Float64("new_score", saved.Score),
		slog.Bool("active", params.IsActive(saved.Score)),
		slog.Bool("learned", params.IsLearned(saved.Score)))
	return &ProgressResult{
		ItemID:   itemID,
		NewScore: saved.Score,
		Message:  messageFor(action),
	}, nil
}

func messageFor(action domain.FeedbackAction) string {
	switch action {
	case domain.ActionKnow:
		return MessageKnow
	case domain.ActionDontKnow:
		return MessageDontKnow
	default:
		return MessageRemove
	}
}

// GetStats implements StudyService.GetStats.
func (s *studyServiceImpl) GetStats(ctx context.Context) (*domain.LearningStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	params := s.policy.Params()

	total, err := s.vocabRepo.Count(ctx)
	if err != nil {
		log.Error("failed to count vocabulary items", slog.String("error", err.Error()))
		return nil, NewGetStatsError("failed to count vocabulary items", err)
	}
	learned, err := s.progressRepo.CountScoreAtLeast(ctx, params.RetireScore)
	if err != nil {
		log.Error("failed to count learned items", slog.String("error", err.Error()))
		return nil, NewGetStatsError("failed to count learned items", err)
	}
	inProgress, err := s.progressRepo.CountScoreBelow(ctx, params.ActiveThreshold)
	if err != nil {
		log.Error("failed to count items in progress", slog.String("error", err.Error()))
		return nil, NewGetStatsError("failed to count items in progress", err)
	}

	return &domain.LearningStats{
		TotalItems:           total,
		LearnedCount:         learned,
		InProgressCount:      inProgress,
		CompletionPercentage: completion(learned, total),
	}, nil
}

// completion returns learned/total as a percentage rounded to two decimals.
func completion(learned, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(learned)/float64(total)*100*100) / 100
}

// runInTransaction runs fn with repositories bound to a single transaction.
func (s *studyServiceImpl) runInTransaction(
	ctx context.Context,
	fn func(context.Context, VocabularyRepository, ProgressRepository) error,
) error {
	return s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.vocabRepo.WithTx(tx), s.progressRepo.WithTx(tx))
	})
}
