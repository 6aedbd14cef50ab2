package translation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
)

// Provider translates a single word into the configured target language.
type Provider interface {
	// Translate returns the translation of word. Implementations return
	// ErrEmptyWord for blank input.
	Translate(ctx context.Context, word string) (string, error)
}

// EchoProvider returns every word unchanged. It serves offline development
// and tests.
type EchoProvider struct{}

var _ Provider = EchoProvider{}

// Translate implements Provider.
func (EchoProvider) Translate(_ context.Context, word string) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", ErrEmptyWord
	}
	return word, nil
}

// CachedProvider memoizes successful translations of another Provider.
// Failures are never cached.
type CachedProvider struct {
	next   Provider
	cache  *cache.Cache
	logger *slog.Logger
}

var _ Provider = (*CachedProvider)(nil)

// NewCachedProvider wraps next with a cache whose entries expire after ttl.
// A non-positive ttl keeps entries for the life of the process.
func NewCachedProvider(next Provider, ttl time.Duration, logger *slog.Logger) *CachedProvider {
	if next == nil {
		panic("next provider cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	expiration := ttl
	cleanup := 2 * ttl
	if ttl <= 0 {
		expiration = cache.NoExpiration
		cleanup = 0
	}
	return &CachedProvider{
		next:   next,
		cache:  cache.New(expiration, cleanup),
		logger: logger.With(slog.String("component", "translation_cache")),
	}
}

// Translate implements Provider.
func (p *CachedProvider) Translate(ctx context.Context, word string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(word))
	if key == "" {
		return "", ErrEmptyWord
	}

	if cached, ok := p.cache.Get(key); ok {
		logger.FromContextOrDefault(ctx, p.logger).Debug("translation cache hit", slog.String("word", key))
		return cached.(string), nil
	}

	translated, err := p.next.Translate(ctx, key)
	if err != nil {
		return "", err
	}
	p.cache.SetDefault(key, translated)
	return translated, nil
}

// Len returns the number of cached translations, including expired ones
// that have not been cleaned up yet.
func (p *CachedProvider) Len() int {
	return p.cache.ItemCount()
}
