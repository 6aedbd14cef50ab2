package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "LINGUA"

// setDefaults registers a default for every key. Viper only consults the
// environment for keys it knows about, so keys without a natural default
// are registered with an empty value.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.url", "lingua.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("scoring.know_bonus", 1.0)
	v.SetDefault("scoring.dont_know_penalty", 1.5)
	v.SetDefault("scoring.score_floor", 0.0)
	v.SetDefault("scoring.retire_score", 10.0)
	v.SetDefault("scoring.active_threshold", 7.0)

	v.SetDefault("study.session_size", 10)

	v.SetDefault("translation.provider", ProviderEcho)
	v.SetDefault("translation.source_language", "en")
	v.SetDefault("translation.target_language", "ru")
	v.SetDefault("translation.cache_ttl", 24*time.Hour)
	v.SetDefault("translation.timeout", 10*time.Second)

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.retry_delay", time.Second)

	v.SetDefault("ingest.workers", 4)
	v.SetDefault("ingest.fetch_timeout", 15*time.Second)
	v.SetDefault("ingest.fetch_retries", 2)
	v.SetDefault("ingest.max_body_bytes", int64(5<<20))
	v.SetDefault("ingest.min_word_length", 2)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime", 24*time.Hour)
}

// Load configuration from environment variables and optionally config files.
// A .env file in the working directory is loaded first (without overriding
// variables that are already set), then config.yaml from "." or "./config"
// if present, then LINGUA_* environment variables.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	// A missing .env file is the normal case outside development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and the rules that span sections.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Translation.Provider == ProviderGemini && c.LLM.GeminiAPIKey == "" {
		return fmt.Errorf("config validation failed: llm.gemini_api_key is required when translation.provider is %q",
			ProviderGemini)
	}

	return nil
}
