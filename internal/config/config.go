// Package config loads server settings from the environment.
//
//	PORT                 listen port                       (8080)
//	LOG_LEVEL            debug, info, warn or error        (info)
//	DB_PATH              SQLite file, or :memory:          (data/snippets.db)
//	STORE_TIMEOUT        per-call store deadline           (5s)
//	JWT_SECRET           HMAC key for bearer tokens        (required, >= 16 bytes)
//	JWT_ISSUER           expected token issuer             (snippet-social)
//	FEED_PAGE_SIZE       snippets per feed page            (3, max 50)
//	NOTIFICATION_LIMIT   notifications on /me              (10)
//	SHUTDOWN_TIMEOUT     grace period for in-flight calls  (30s)
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	minSecretLength = 16

	// MaxFeedPageSize is the largest FEED_PAGE_SIZE accepted.
	MaxFeedPageSize = 50
)

type Config struct {
	Port     int    `env:"PORT"      envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBPath       string        `env:"DB_PATH"       envDefault:"data/snippets.db"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`

	JWTSecret string `env:"JWT_SECRET,required"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"snippet-social"`

	FeedPageSize      int `env:"FEED_PAGE_SIZE"     envDefault:"3"`
	NotificationLimit int `env:"NOTIFICATION_LIMIT" envDefault:"10"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(c *Config) error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be in 1..65535, got %d", c.Port))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH must not be empty"))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout))
	}
	if len(c.JWTSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength))
	}
	if c.FeedPageSize < 1 || c.FeedPageSize > MaxFeedPageSize {
		errs = append(errs, fmt.Errorf("FEED_PAGE_SIZE must be in 1..%d, got %d", MaxFeedPageSize, c.FeedPageSize))
	}
	if c.NotificationLimit <= 0 {
		errs = append(errs, fmt.Errorf("NOTIFICATION_LIMIT must be positive, got %d", c.NotificationLimit))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ParseLevel maps a LOG_LEVEL value to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", s)
	}
	return level, nil
}
