package config

import (
	"os"
	"strconv"
	"time"

	"pilemap/internal/errors"
)

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Grading  GradingConfig
	Extract  ExtractConfig
}

// ServerConfig holds web server settings.
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds Postgres settings. An empty URL disables the import
// history audit trail.
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds mapping-cache settings. An empty Addr falls back to the
// in-memory cache.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// GradingConfig holds the external grading service settings.
type GradingConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ExtractConfig holds the extraction engine knobs. The blank-streak limit
// and preview cap are deliberate configuration defaults, not fixed literals.
type ExtractConfig struct {
	TargetSheet      string
	BlankStreakLimit int
	PreviewRowCap    int
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr:      getEnvOrDefault("REDIS_ADDR", ""),
			Password:  getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:        getEnvIntOrDefault("REDIS_DB", 0),
			KeyPrefix: getEnvOrDefault("REDIS_KEY_PREFIX", "pilemap:mapping"),
		},
		Grading: GradingConfig{
			BaseURL: getEnvOrDefault("GRADING_URL", "http://localhost:8000/api"),
			Timeout: getEnvDurationOrDefault("GRADING_TIMEOUT", 60*time.Second),
		},
		Extract: ExtractConfig{
			TargetSheet:      getEnvOrDefault("TARGET_SHEET", "piling information"),
			BlankStreakLimit: getEnvIntOrDefault("BLANK_STREAK_LIMIT", 25),
			PreviewRowCap:    getEnvIntOrDefault("PREVIEW_ROW_CAP", 2000),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	if cfg.Extract.BlankStreakLimit <= 0 {
		return errors.ConfigInvalid("BLANK_STREAK_LIMIT must be positive")
	}
	if cfg.Extract.PreviewRowCap <= 0 {
		return errors.ConfigInvalid("PREVIEW_ROW_CAP must be positive")
	}
	if cfg.Grading.BaseURL == "" {
		return errors.ConfigInvalid("GRADING_URL must not be empty")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
