package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
	"github.com/phrazzld/lingua-api/internal/store"
	"github.com/phrazzld/lingua-api/internal/translation"
	"golang.org/x/sync/errgroup"
)

// VocabularyRepository defines the repository interface for the vocabulary service.
type VocabularyRepository interface {
	GetByText(ctx context.Context, text string) (*domain.VocabularyItem, error)
	List(ctx context.Context) ([]*domain.VocabularyItem, error)
	CreateOrGet(ctx context.Context, item *domain.VocabularyItem) (*domain.VocabularyItem, bool, error)
	UpdateTranslation(ctx context.Context, id int64, translation string) error
	GetByID(ctx context.Context, id int64) (*domain.VocabularyItem, error)
}

var _ VocabularyRepository = (store.VocabularyStore)(nil)

// WordSource turns a page or raw text into candidate words.
type WordSource interface {
	ExtractWords(text string) []string
	FetchWords(ctx context.Context, url string) ([]string, error)
}

// IngestRequest names exactly one source of words.
type IngestRequest struct {
	URL  string
	Text string
}

// IngestResult reports the words found and their translations.
type IngestResult struct {
	Words        []string          `json:"words"`
	Count        int               `json:"count"`
	Message      string            `json:"message"`
	Translations map[string]string `json:"translations"`
}

// VocabularyService provides vocabulary ingestion and maintenance.
type VocabularyService interface {
	// Ingest extracts the words of a page or text, translates the ones not
	// yet stored and saves them as vocabulary items. A word whose
	// translation fails is reported with itself as translation and is not
	// saved.
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)

	// ListItems returns every vocabulary item ordered by ID.
	ListItems(ctx context.Context) ([]*domain.VocabularyItem, error)

	// UpdateTranslation corrects the translation of an item.
	UpdateTranslation(ctx context.Context, id int64, translation string) (*domain.VocabularyItem, error)
}

// VocabularyServiceError wraps errors from the vocabulary service with context.
type VocabularyServiceError struct {
	// Operation is the operation that failed (e.g., "ingest", "list_items")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for VocabularyServiceError.
func (e *VocabularyServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vocabulary service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("vocabulary service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *VocabularyServiceError) Unwrap() error {
	return e.Err
}

// NewVocabularyServiceError creates a new VocabularyServiceError.
// It returns known sentinel errors directly without wrapping.
func NewVocabularyServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrItemNotFound) || errors.Is(err, store.ErrVocabularyItemNotFound) {
		return ErrItemNotFound
	}
	return &VocabularyServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// vocabularyServiceImpl implements the VocabularyService interface
type vocabularyServiceImpl struct {
	repo       VocabularyRepository
	source     WordSource
	translator translation.Provider
	workers    int
	logger     *slog.Logger
}

// NewVocabularyService creates a new VocabularyService. workers bounds the
// number of concurrent translations.
// It returns an error if any of the required dependencies are nil.
func NewVocabularyService(
	repo VocabularyRepository,
	source WordSource,
	translator translation.Provider,
	workers int,
	logger *slog.Logger,
) (VocabularyService, error) {
	if repo == nil {
		return nil, &VocabularyServiceError{Operation: "create_service", Message: "repo cannot be nil"}
	}
	if source == nil {
		return nil, &VocabularyServiceError{Operation: "create_service", Message: "source cannot be nil"}
	}
	if translator == nil {
		return nil, &VocabularyServiceError{Operation: "create_service", Message: "translator cannot be nil"}
	}
	if workers < 1 {
		workers = 1
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &vocabularyServiceImpl{
		repo:       repo,
		source:     source,
		translator: translator,
		workers:    workers,
		logger:     logger.With(slog.String("component", "vocabulary_service")),
	}, nil
}

// Ingest implements VocabularyService.Ingest.
func (s *vocabularyServiceImpl) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rawURL := strings.TrimSpace(req.URL)
	text := strings.TrimSpace(req.Text)
	switch {
	case rawURL == "" && text == "":
		return nil, ErrEmptySource
	case rawURL != "" && text != "":
		return nil, ErrConflictingSources
	}

	var (
		words   []string
		message string
	)
	if rawURL != "" {
		var err error
		words, err = s.source.FetchWords(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch words: %w", err)
		}
		message = fmt.Sprintf("Parsed %d words from URL", len(words))
	} else {
		words = s.source.ExtractWords(text)
		message = fmt.Sprintf("Extracted %d words from text", len(words))
	}

	translated := make([]string, len(words))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, word := range words {
		g.Go(func() error {
			tr, err := s.translateWord(gctx, word)
			if err != nil {
				return err
			}
			translated[i] = tr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("failed to ingest words", slog.String("error", err.Error()))
		return nil, NewVocabularyServiceError("ingest", "failed to store words", err)
	}

	translations := make(map[string]string, len(words))
	for i, word := range words {
		translations[word] = translated[i]
	}

	log.Info("words ingested",
		slog.Int("count", len(words)),
		slog.Bool("from_url", rawURL != ""))

	return &IngestResult{
		Words:        words,
		Count:        len(words),
		Message:      message,
		Translations: translations,
	}, nil
}

// translateWord returns the stored translation of word, or translates and
// stores it. Translation failures fall back to the word itself.
func (s *vocabularyServiceImpl) translateWord(ctx context.Context, word string) (string, error) {
	existing, err := s.repo.GetByText(ctx, word)
	if err == nil {
		return existing.Translation, nil
	}
	if !errors.Is(err, store.ErrVocabularyItemNotFound) {
		return "", fmt.Errorf("failed to look up %q: %w", word, err)
	}

	translated, err := s.translator.Translate(ctx, word)
	if err == nil && strings.TrimSpace(translated) == "" {
		err = translation.ErrInvalidResponse
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		logger.FromContextOrDefault(ctx, s.logger).Warn("translation failed, using the word itself",
			slog.String("word", word),
			slog.String("error", err.Error()))
		return word, nil
	}

	item, err := domain.NewVocabularyItem(word, translated)
	if err != nil {
		return "", fmt.Errorf("invalid vocabulary item %q: %w", word, err)
	}
	stored, _, err := s.repo.CreateOrGet(ctx, item)
	if err != nil {
		return "", fmt.Errorf("failed to save %q: %w", word, err)
	}
	return stored.Translation, nil
}

// ListItems implements VocabularyService.ListItems.
func (s *vocabularyServiceImpl) ListItems(ctx context.Context) ([]*domain.VocabularyItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list vocabulary items",
			slog.String("error", err.Error()))
		return nil, NewVocabularyServiceError("list_items", "failed to list vocabulary items", err)
	}
	return items, nil
}

// UpdateTranslation implements VocabularyService.UpdateTranslation.
func (s *vocabularyServiceImpl) UpdateTranslation(
	ctx context.Context,
	id int64,
	translation string,
) (*domain.VocabularyItem, error) {
	translation = strings.TrimSpace(translation)
	if translation == "" {
		return nil, domain.NewValidationError("translation", "cannot be empty", domain.ErrEmptyItemTranslation)
	}

	if err := s.repo.UpdateTranslation(ctx, id, translation); err != nil {
		return nil, NewVocabularyServiceError("update_translation", "failed to update translation", err)
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, NewVocabularyServiceError("update_translation", "failed to reload item", err)
	}
	return item, nil
}
