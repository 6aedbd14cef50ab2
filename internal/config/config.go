package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Scoring     ScoringConfig     `mapstructure:"scoring" validate:"required"`
	Study       StudyConfig       `mapstructure:"study" validate:"required"`
	Translation TranslationConfig `mapstructure:"translation" validate:"required"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Ingest      IngestConfig      `mapstructure:"ingest" validate:"required"`
	Auth        AuthConfig        `mapstructure:"auth"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	// CORSAllowedOrigins lists the browser origins allowed to call the API.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig contains all database-related configuration settings.
// URL is a PostgreSQL connection string for the postgres driver and a file
// path for the sqlite driver.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL             string        `mapstructure:"url" validate:"required"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// ScoringConfig holds the mastery scoring parameters.
type ScoringConfig struct {
	KnowBonus       float64 `mapstructure:"know_bonus" validate:"gt=0"`
	DontKnowPenalty float64 `mapstructure:"dont_know_penalty" validate:"gt=0"`
	ScoreFloor      float64 `mapstructure:"score_floor" validate:"gte=0"`
	RetireScore     float64 `mapstructure:"retire_score" validate:"gtefield=ActiveThreshold"`
	ActiveThreshold float64 `mapstructure:"active_threshold" validate:"gtfield=ScoreFloor"`
}

// StudyConfig holds study session settings.
type StudyConfig struct {
	SessionSize int `mapstructure:"session_size" validate:"gte=1,lte=100"`
}

// Supported translation providers
const (
	ProviderGemini = "gemini"
	ProviderEcho   = "echo"
)

// TranslationConfig selects and tunes the translation provider.
type TranslationConfig struct {
	Provider       string        `mapstructure:"provider" validate:"required,oneof=gemini echo"`
	SourceLanguage string        `mapstructure:"source_language" validate:"required"`
	TargetLanguage string        `mapstructure:"target_language" validate:"required"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// LLMConfig contains all LLM integration related settings.
// GeminiAPIKey is required when Translation.Provider is gemini.
type LLMConfig struct {
	GeminiAPIKey string        `mapstructure:"gemini_api_key"`
	ModelName    string        `mapstructure:"model_name" validate:"required"`
	MaxRetries   int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelay   time.Duration `mapstructure:"retry_delay" validate:"gte=0"`
}

// IngestConfig tunes word ingestion from URLs and raw text.
type IngestConfig struct {
	Workers       int           `mapstructure:"workers" validate:"gte=1,lte=64"`
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout" validate:"gt=0"`
	FetchRetries  int           `mapstructure:"fetch_retries" validate:"gte=0,lte=10"`
	MaxBodyBytes  int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
	MinWordLength int           `mapstructure:"min_word_length" validate:"gte=1"`
}

// AuthConfig contains authentication settings. Authentication is disabled
// when JWTSecret is empty.
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" validate:"gt=0"`
}

// Enabled reports whether bearer-token authentication is configured.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}
