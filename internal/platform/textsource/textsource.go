// Package textsource turns web pages and raw text into lists of candidate
// vocabulary words.
package textsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/phrazzld/lingua-api/internal/config"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
)

var (
	// ErrInvalidURL is returned when a URL has no http(s) scheme or no host.
	ErrInvalidURL = errors.New("invalid url")

	// ErrFetchFailed is returned when a page cannot be downloaded or parsed.
	ErrFetchFailed = errors.New("failed to fetch page")
)

const userAgent = "Mozilla/5.0 (compatible; lingua-api/1.0; +https://github.com/phrazzld/lingua-api)"

var wordPattern = regexp.MustCompile(`\b[A-Za-z]+\b`)

// ExtractWords returns the distinct English words of text that are at least
// minLength letters long, lower-cased, in order of first appearance.
func ExtractWords(text string, minLength int) []string {
	matches := wordPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	words := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) < minLength {
			continue
		}
		w := strings.ToLower(m)
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}

// Options configures a Fetcher.
type Options struct {
	Timeout       time.Duration
	Retries       int
	RetryWaitMin  time.Duration
	RetryWaitMax  time.Duration
	MaxBodyBytes  int64
	MinWordLength int
}

// OptionsFromConfig builds Options from the ingest configuration.
func OptionsFromConfig(cfg config.IngestConfig) Options {
	return Options{
		Timeout:       cfg.FetchTimeout,
		Retries:       cfg.FetchRetries,
		RetryWaitMin:  500 * time.Millisecond,
		RetryWaitMax:  5 * time.Second,
		MaxBodyBytes:  cfg.MaxBodyBytes,
		MinWordLength: cfg.MinWordLength,
	}
}

// Fetcher downloads pages and extracts their words.
type Fetcher struct {
	client        *retryablehttp.Client
	maxBodyBytes  int64
	minWordLength int
	logger        *slog.Logger
}

// NewFetcher creates a Fetcher. If logger is nil, a default logger will be used.
func NewFetcher(opts Options, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "text_source"))

	client := retryablehttp.NewClient()
	client.RetryMax = opts.Retries
	if opts.RetryWaitMin > 0 {
		client.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		client.RetryWaitMax = opts.RetryWaitMax
	}
	client.HTTPClient.Timeout = opts.Timeout
	client.Logger = logger

	minLength := opts.MinWordLength
	if minLength <= 0 {
		minLength = 2
	}

	return &Fetcher{
		client:        client,
		maxBodyBytes:  opts.MaxBodyBytes,
		minWordLength: minLength,
		logger:        logger,
	}
}

// ExtractWords applies the package ExtractWords with the configured minimum length.
func (f *Fetcher) ExtractWords(text string) []string {
	return ExtractWords(text, f.minWordLength)
}

// FetchWords downloads rawURL, extracts the readable article text and
// returns its words.
func (f *Fetcher) FetchWords(ctx context.Context, rawURL string) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, f.logger).With(slog.String("url", rawURL))

	pageURL, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	body, err := f.fetch(ctx, pageURL)
	if err != nil {
		log.Warn("page fetch failed", slog.String("error", err.Error()))
		return nil, err
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		log.Warn("article extraction failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: extract article: %v", ErrFetchFailed, err)
	}

	words := f.ExtractWords(article.TextContent)
	log.Debug("extracted words from page",
		slog.String("title", article.Title),
		slog.Int("words", len(words)))
	return words, nil
}

func (f *Fetcher) fetch(ctx context.Context, pageURL *url.URL) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	if f.maxBodyBytes > 0 && resp.ContentLength > f.maxBodyBytes {
		return nil, fmt.Errorf("%w: content length %d exceeds %d bytes", ErrFetchFailed, resp.ContentLength, f.maxBodyBytes)
	}

	reader := io.Reader(resp.Body)
	if f.maxBodyBytes > 0 {
		reader = io.LimitReader(resp.Body, f.maxBodyBytes+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetchFailed, err)
	}
	if f.maxBodyBytes > 0 && int64(len(body)) > f.maxBodyBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrFetchFailed, f.maxBodyBytes)
	}
	return body, nil
}

// ValidateURL parses rawURL and requires an http or https scheme and a host.
func ValidateURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	return u, nil
}
