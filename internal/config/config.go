package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"yatube/internal/db"
)

const devSecret = "yatube-development-secret"

// Config holds the application configuration.
type Config struct {
	ServerPort           int
	DatabaseDriver       string
	DatabaseDSN          string
	SessionSecret        string
	SessionTTL           time.Duration
	SessionPurgeSchedule string
	LogLevel             string
	Env                  string
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8000"))
	if err != nil {
		return nil, fmt.Errorf("PORT: %w", err)
	}
	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "336h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, errors.New("SESSION_TTL must be positive")
	}

	cfg := &Config{
		ServerPort:           port,
		DatabaseDriver:       getEnv("DATABASE_DRIVER", db.SQLite),
		DatabaseDSN:          getEnv("DATABASE_DSN", "./data/yatube.db"),
		SessionSecret:        getEnv("SESSION_SECRET", ""),
		SessionTTL:           ttl,
		SessionPurgeSchedule: getEnv("SESSION_PURGE_SCHEDULE", "@hourly"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		Env:                  getEnv("APP_ENV", "development"),
	}

	switch cfg.DatabaseDriver {
	case db.SQLite, db.Postgres, db.MySQL:
	default:
		return nil, fmt.Errorf("DATABASE_DRIVER: unsupported driver %q", cfg.DatabaseDriver)
	}
	if _, err := cron.ParseStandard(cfg.SessionPurgeSchedule); err != nil {
		return nil, fmt.Errorf("SESSION_PURGE_SCHEDULE: %w", err)
	}
	if cfg.SessionSecret == "" {
		if cfg.Production() {
			return nil, errors.New("SESSION_SECRET is required in production")
		}
		cfg.SessionSecret = devSecret
	}
	return cfg, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
