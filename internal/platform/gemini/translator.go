package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"text/template"
	"time"

	"github.com/phrazzld/lingua-api/internal/config"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
	"github.com/phrazzld/lingua-api/internal/translation"
	"google.golang.org/genai"
)

// defaultPrompt asks for a single bare translation.
const defaultPrompt = `Translate the {{.SourceLanguage}} word "{{.Word}}" into {{.TargetLanguage}}.
Reply with the most common translation only: no quotes, no transcription, no explanation.`

// promptData represents the data passed to the prompt template
type promptData struct {
	Word           string
	SourceLanguage string
	TargetLanguage string
}

// contentGenerator is the part of the genai client the translator uses.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Translator implements translation.Provider with the Gemini API.
type Translator struct {
	logger         *slog.Logger
	generator      contentGenerator
	promptTemplate *template.Template
	model          string
	sourceLanguage string
	targetLanguage string
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

var _ translation.Provider = (*Translator)(nil)

// NewTranslator creates a Translator backed by a new Gemini API client.
func NewTranslator(
	ctx context.Context,
	logger *slog.Logger,
	llm config.LLMConfig,
	cfg config.TranslationConfig,
) (*Translator, error) {
	if llm.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", translation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  llm.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", translation.ErrInvalidConfig, err)
	}

	return newTranslator(client.Models, logger, llm, cfg)
}

func newTranslator(
	generator contentGenerator,
	logger *slog.Logger,
	llm config.LLMConfig,
	cfg config.TranslationConfig,
) (*Translator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if llm.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", translation.ErrInvalidConfig)
	}
	if cfg.SourceLanguage == "" || cfg.TargetLanguage == "" {
		return nil, fmt.Errorf("%w: source and target languages are required", translation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("translate").Parse(defaultPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", translation.ErrInvalidConfig, err)
	}

	return &Translator{
		logger:         logger.With(slog.String("component", "gemini_translator")),
		generator:      generator,
		promptTemplate: promptTemplate,
		model:          llm.ModelName,
		sourceLanguage: cfg.SourceLanguage,
		targetLanguage: cfg.TargetLanguage,
		timeout:        cfg.Timeout,
		maxRetries:     llm.MaxRetries,
		retryDelay:     llm.RetryDelay,
	}, nil
}

// Translate implements translation.Provider.
func (t *Translator) Translate(ctx context.Context, word string) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", translation.ErrEmptyWord
	}

	prompt, err := t.createPrompt(word)
	if err != nil {
		return "", err
	}

	text, err := t.callWithRetry(ctx, prompt)
	if err != nil {
		return "", err
	}

	translated := cleanReply(text)
	if translated == "" {
		return "", fmt.Errorf("%w: empty translation", translation.ErrInvalidResponse)
	}
	return translated, nil
}

func (t *Translator) createPrompt(word string) (string, error) {
	var buf bytes.Buffer
	err := t.promptTemplate.Execute(&buf, promptData{
		Word:           word,
		SourceLanguage: t.sourceLanguage,
		TargetLanguage: t.targetLanguage,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// callWithRetry calls the model, retrying transient errors with exponential
// backoff and jitter: delay = retryDelay * 2^attempt * [0.5, 1.0).
func (t *Translator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, t.logger)

	for attempt := 0; ; attempt++ {
		text, err := t.call(ctx, prompt)
		if err == nil {
			return text, nil
		}

		if errors.Is(err, translation.ErrContentBlocked) || errors.Is(err, translation.ErrInvalidResponse) {
			log.Warn("permanent error occurred, not retrying", slog.String("error", err.Error()))
			return "", err
		}

		if attempt >= t.maxRetries {
			log.Warn("maximum retry attempts reached",
				slog.Int("max_retries", t.maxRetries),
				slog.String("error", err.Error()))
			return "", fmt.Errorf("%w: %w", translation.ErrTransientFailure, err)
		}

		backoff := float64(t.retryDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rand.Float64()*0.5))

		log.Info("retrying after delay",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", translation.ErrTransientFailure, ctx.Err())
		}
	}
}

func (t *Translator) call(ctx context.Context, prompt string) (string, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	resp, err := t.generator.GenerateContent(ctx, t.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	switch {
	case err != nil:
		return "", err
	case resp == nil:
		return "", fmt.Errorf("%w: nil response", translation.ErrInvalidResponse)
	case len(resp.Candidates) == 0:
		return "", fmt.Errorf("%w: no candidates", translation.ErrInvalidResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return "", translation.ErrContentBlocked
	case resp.Candidates[0].Content == nil:
		return "", fmt.Errorf("%w: empty content in response", translation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// cleanReply keeps the first non-empty line of the reply without
// surrounding quotes or a trailing period.
func cleanReply(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(strings.TrimSpace(line), ".")
		line = strings.Trim(line, "\"'«»`*")
		line = strings.TrimSpace(strings.TrimSuffix(line, "."))
		if line != "" {
			return line
		}
	}
	return ""
}
