package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
	"github.com/phrazzld/lingua-api/internal/platform/sqlite"
	"github.com/phrazzld/lingua-api/internal/platform/textsource"
	"github.com/phrazzld/lingua-api/internal/service"
	"github.com/phrazzld/lingua-api/internal/store"
	"github.com/phrazzld/lingua-api/internal/testdb"
	"github.com/phrazzld/lingua-api/internal/translation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource serves fixed words for URLs and extracts words from text.
type stubSource struct {
	pageWords []string
	err       error
}

func (s *stubSource) ExtractWords(text string) []string {
	return textsource.ExtractWords(text, 2)
}

func (s *stubSource) FetchWords(_ context.Context, _ string) ([]string, error) {
	return s.pageWords, s.err
}

// dictProvider translates from a fixed dictionary and fails otherwise.
type dictProvider struct {
	mu    sync.Mutex
	dict  map[string]string
	calls []string
}

func (p *dictProvider) Translate(_ context.Context, word string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, word)
	if tr, ok := p.dict[word]; ok {
		return tr, nil
	}
	return "", translation.ErrTranslationFailed
}

func newVocabularyService(
	t *testing.T,
	source service.WordSource,
	provider translation.Provider,
) (service.VocabularyService, store.VocabularyStore) {
	t.Helper()
	db := testdb.NewSQLite(t)
	l, _ := logger.NewTestLogger(t)
	repo := sqlite.NewVocabularyStore(db, l)
	svc, err := service.NewVocabularyService(repo, source, provider, 4, l)
	require.NoError(t, err)
	return svc, repo
}

func TestNewVocabularyService_NilDependencies(t *testing.T) {
	t.Parallel()

	db := testdb.NewSQLite(t)
	repo := sqlite.NewVocabularyStore(db, nil)

	_, err := service.NewVocabularyService(nil, &stubSource{}, translation.EchoProvider{}, 1, nil)
	assert.Error(t, err)
	_, err = service.NewVocabularyService(repo, nil, translation.EchoProvider{}, 1, nil)
	assert.Error(t, err)
	_, err = service.NewVocabularyService(repo, &stubSource{}, nil, 1, nil)
	assert.Error(t, err)

	var serviceErr *service.VocabularyServiceError
	assert.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, "create_service", serviceErr.Operation)
}

func TestIngest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("source is required", func(t *testing.T) {
		t.Parallel()
		svc, _ := newVocabularyService(t, &stubSource{}, translation.EchoProvider{})

		_, err := svc.Ingest(ctx, service.IngestRequest{Text: "   "})
		assert.ErrorIs(t, err, service.ErrEmptySource)

		_, err = svc.Ingest(ctx, service.IngestRequest{URL: "https://example.com", Text: "hello"})
		assert.ErrorIs(t, err, service.ErrConflictingSources)
	})

	t.Run("text is translated and stored", func(t *testing.T) {
		t.Parallel()
		provider := &dictProvider{dict: map[string]string{"red": "красный", "fox": "лиса"}}
		svc, repo := newVocabularyService(t, &stubSource{}, provider)

		res, err := svc.Ingest(ctx, service.IngestRequest{Text: "Red fox, red FOX!"})
		require.NoError(t, err)
		assert.Equal(t, []string{"red", "fox"}, res.Words)
		assert.Equal(t, 2, res.Count)
		assert.Equal(t, "Extracted 2 words from text", res.Message)
		assert.Equal(t, map[string]string{"red": "красный", "fox": "лиса"}, res.Translations)

		items, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("stored words are not translated again", func(t *testing.T) {
		t.Parallel()
		provider := &dictProvider{dict: map[string]string{"sun": "солнце"}}
		svc, _ := newVocabularyService(t, &stubSource{}, provider)

		_, err := svc.Ingest(ctx, service.IngestRequest{Text: "sun"})
		require.NoError(t, err)
		res, err := svc.Ingest(ctx, service.IngestRequest{Text: "sun"})
		require.NoError(t, err)

		assert.Equal(t, "солнце", res.Translations["sun"])
		assert.Equal(t, []string{"sun"}, provider.calls)
	})

	t.Run("failed translation falls back and is not stored", func(t *testing.T) {
		t.Parallel()
		provider := &dictProvider{dict: map[string]string{"moon": "луна"}}
		svc, repo := newVocabularyService(t, &stubSource{}, provider)

		res, err := svc.Ingest(ctx, service.IngestRequest{Text: "moon zyzzyva"})
		require.NoError(t, err)
		assert.Equal(t, "zyzzyva", res.Translations["zyzzyva"])

		_, err = repo.GetByText(ctx, "zyzzyva")
		assert.ErrorIs(t, err, store.ErrVocabularyItemNotFound)
		_, err = repo.GetByText(ctx, "moon")
		assert.NoError(t, err)
	})

	t.Run("url words", func(t *testing.T) {
		t.Parallel()
		svc, _ := newVocabularyService(t, &stubSource{pageWords: []string{"river", "stone"}}, translation.EchoProvider{})

		res, err := svc.Ingest(ctx, service.IngestRequest{URL: "https://example.com/article"})
		require.NoError(t, err)
		assert.Equal(t, "Parsed 2 words from URL", res.Message)
		assert.Equal(t, "river", res.Translations["river"])
	})

	t.Run("fetch errors propagate", func(t *testing.T) {
		t.Parallel()
		svc, _ := newVocabularyService(t, &stubSource{err: textsource.ErrFetchFailed}, translation.EchoProvider{})

		_, err := svc.Ingest(ctx, service.IngestRequest{URL: "https://example.com"})
		assert.ErrorIs(t, err, textsource.ErrFetchFailed)
	})

	t.Run("many words with bounded workers", func(t *testing.T) {
		t.Parallel()
		svc, repo := newVocabularyService(t, &stubSource{}, translation.EchoProvider{})

		var words []string
		for _, a := range "abcdefgh" {
			for _, b := range "abcdefgh" {
				words = append(words, string(a)+string(b)+"x")
			}
		}
		res, err := svc.Ingest(ctx, service.IngestRequest{Text: strings.Join(words, " ")})
		require.NoError(t, err)
		assert.Equal(t, 64, res.Count)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 64, count)
	})
}

func TestListAndUpdateTranslation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _ := newVocabularyService(t, &stubSource{}, translation.EchoProvider{})
	_, err := svc.Ingest(ctx, service.IngestRequest{Text: "bread water"})
	require.NoError(t, err)

	items, err := svc.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Less(t, items[0].ID, items[1].ID)

	var bread *domain.VocabularyItem
	for _, item := range items {
		if item.Text == "bread" {
			bread = item
		}
	}
	require.NotNil(t, bread)

	updated, err := svc.UpdateTranslation(ctx, bread.ID, " хлеб ")
	require.NoError(t, err)
	assert.Equal(t, "хлеб", updated.Translation)
	assert.Equal(t, "bread", updated.Text)

	_, err = svc.UpdateTranslation(ctx, bread.ID, "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateTranslation(ctx, 9999, "что-то")
	assert.ErrorIs(t, err, service.ErrItemNotFound)
}
