package study

import (
	"context"
	"errors"
	"fmt"

	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/store"
)

// SessionPlan is the read-only result of PlanSession. Active holds the
// records still below the active threshold; Candidates holds never-studied
// items that will receive a progress record when the plan is materialized.
type SessionPlan struct {
	Active     []*domain.ProgressRecord
	Candidates []*domain.VocabularyItem
}

// ProgressResult is returned by UpdateProgress.
type ProgressResult struct {
	ItemID   int64   `json:"word_id"`
	NewScore float64 `json:"new_score"`
	Message  string  `json:"message"`
}

// StudyService selects study sessions and records learner feedback.
type StudyService interface {
	// GetSession returns at most the configured session size of cards,
	// mixing items below the active threshold with never-studied items in
	// random order. Never-studied items that are selected get a progress
	// record with score 0.
	//
	// Planning and materialization run in a single transaction. An empty
	// slice (not an error) is returned when nothing is left to study.
	GetSession(ctx context.Context) ([]domain.StudyCard, error)

	// PlanSession reads the active pool and the never-studied candidates
	// needed to fill a session. It does not write.
	PlanSession(ctx context.Context) (*SessionPlan, error)

	// MaterializeSession creates the missing progress records for the
	// candidates in plan, shuffles, truncates and joins the result to the
	// vocabulary items. Records whose item no longer exists are dropped.
	MaterializeSession(ctx context.Context, plan *SessionPlan) ([]domain.StudyCard, error)

	// UpdateProgress applies a feedback action to an item's score.
	//
	// The action is validated before anything is written. The record is
	// created if absent, locked, scored and saved within one transaction,
	// so concurrent updates of the same item are serialized.
	//
	// Returns:
	//   - ErrInvalidAction: the action is not know, dont_know or remove
	//   - ErrNotFound: the item does not exist
	//   - ErrConcurrentModification: the record vanished between create and lock
	UpdateProgress(ctx context.Context, itemID int64, action domain.FeedbackAction) (*ProgressResult, error)

	// GetStats aggregates the learner's progress. Read-only.
	GetStats(ctx context.Context) (*domain.LearningStats, error)
}

// Common error types for StudyService
var (
	// ErrInvalidAction indicates that the feedback action is not recognized.
	ErrInvalidAction = domain.ErrInvalidAction

	// ErrNotFound indicates that the vocabulary item does not exist.
	ErrNotFound = fmt.Errorf("vocabulary item not found: %w", store.ErrVocabularyItemNotFound)

	// ErrConcurrentModification indicates a write conflict that could not be
	// resolved by re-reading the record.
	ErrConcurrentModification = errors.New("concurrent modification")
)

// ServiceError wraps errors from the study service with the failed operation.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "get_session", "update_progress")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewGetSessionError returns a new ServiceError for the get_session operation.
func NewGetSessionError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "get_session", Message: message, Err: err}
}

// NewUpdateProgressError returns a new ServiceError for the update_progress operation.
func NewUpdateProgressError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "update_progress", Message: message, Err: err}
}

// NewGetStatsError returns a new ServiceError for the get_stats operation.
func NewGetStatsError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "get_stats", Message: message, Err: err}
}
