// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Session store backends.
const (
	SessionStoreMemory   = "memory"
	SessionStoreRedis    = "redis"
	SessionStorePostgres = "postgres"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL    string `env:"DATABASE_URL,required"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"true"`
	DBMaxConns     int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns     int32  `env:"DB_MIN_CONNS" envDefault:"2"`

	// Cache (Redis). Only required when something uses it.
	RedisURL string `env:"REDIS_URL"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Sessions
	SessionStore        string        `env:"SESSION_STORE" envDefault:"redis"`
	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionCookieName   string        `env:"SESSION_COOKIE_NAME" envDefault:"shopverse_session"`
	SessionCookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"true"`

	// Accept plaintext credentials left by the legacy storefront and
	// rehash them on the next successful login.
	PasswordLegacyPlaintext bool `env:"PASSWORD_LEGACY_PLAINTEXT" envDefault:"false"`

	// Rate limiting for login and registration (per client IP)
	RateLimitAuthEnabled bool    `env:"RATE_LIMIT_AUTH_ENABLED" envDefault:"true"`
	RateLimitAuthRPS     float64 `env:"RATE_LIMIT_AUTH_RPS" envDefault:"1"`
	RateLimitAuthBurst   int     `env:"RATE_LIMIT_AUTH_BURST" envDefault:"10"`

	// Honour X-Forwarded-For / X-Real-IP for the client address. Only enable
	// behind a proxy that overwrites these headers; otherwise clients can pick
	// their own rate limit bucket.
	TrustForwardedHeaders bool `env:"TRUST_FORWARDED_HEADERS" envDefault:"false"`

	// CORS configuration
	// Comma-separated list of allowed origins, or "*" for any origin.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// Expose /metrics
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"false"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// NeedsRedis reports whether any enabled component talks to Redis.
func (c *Config) NeedsRedis() bool {
	return c.SessionStore == SessionStoreRedis || c.RateLimitAuthEnabled
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks settings that env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreRedis, SessionStorePostgres:
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE must be memory, redis or postgres, got %q", c.SessionStore))
	}
	if c.NeedsRedis() && c.RedisURL == "" {
		errs = append(errs, errors.New("REDIS_URL is required when SESSION_STORE=redis or RATE_LIMIT_AUTH_ENABLED=true"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.RateLimitAuthEnabled && (c.RateLimitAuthRPS <= 0 || c.RateLimitAuthBurst <= 0) {
		errs = append(errs, errors.New("RATE_LIMIT_AUTH_RPS and RATE_LIMIT_AUTH_BURST must be positive"))
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		errs = append(errs, errors.New("DB_MAX_CONNS must be positive and at least DB_MIN_CONNS"))
	}
	if c.MaxRequestBodySize <= 0 {
		errs = append(errs, errors.New("MAX_REQUEST_BODY_SIZE must be positive"))
	}

	return errors.Join(errs...)
}

// Load parses environment variables and returns a validated Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
