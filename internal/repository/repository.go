// Package repository provides database access layer.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrValueTooLong is returned when a value does not fit its column.
var ErrValueTooLong = errors.New("value too long for column")

// PostgreSQL error codes the repository translates.
const (
	uniqueViolationCode  = "23505"
	stringTruncationCode = "22001"
)

const (
	defaultMaxConns = 10
	defaultMinConns = 2
)

// Repository provides database access methods.
type Repository struct {
	pool *pgxpool.Pool
}

// Option adjusts the connection pool before it is opened.
type Option func(*pgxpool.Config)

// WithPoolSize bounds the pool. Non-positive values keep the defaults.
func WithPoolSize(maxConns, minConns int32) Option {
	return func(c *pgxpool.Config) {
		if maxConns > 0 {
			c.MaxConns = maxConns
		}
		if minConns > 0 {
			c.MinConns = min(minConns, c.MaxConns)
		}
	}
}

// New opens a pool against databaseURL and verifies it with a ping.
func New(ctx context.Context, databaseURL string, opts ...Option) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.MaxConns = defaultMaxConns
	config.MinConns = defaultMinConns
	for _, opt := range opts {
		opt(config)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{pool: pool}, nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool returns the underlying pool for the Postgres session store, seeding
// and migrations.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == uniqueViolationCode
}

// isValueTooLong reports whether err is a PostgreSQL string_data_right_truncation.
func isValueTooLong(err error) bool {
	return pgErrorCode(err) == stringTruncationCode
}

// userWriteError maps constraint failures of user writes to sentinels.
func userWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return ErrEmailExists
	case isValueTooLong(err):
		return ErrValueTooLong
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
