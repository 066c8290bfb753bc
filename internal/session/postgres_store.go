package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps sessions in the user_sessions table.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
	now  func() time.Time
}

// NewPostgresStore creates a store backed by the user_sessions table.
func NewPostgresStore(pool *pgxpool.Pool, ttl time.Duration) *PostgresStore {
	return &PostgresStore{pool: pool, ttl: ttl, now: time.Now}
}

// Create implements Store.
func (p *PostgresStore) Create(ctx context.Context, userID int64) (*Session, error) {
	s, err := newSession(userID, p.now(), p.ttl)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO user_sessions (id, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := p.pool.Exec(ctx, query, s.ID, s.UserID, s.CreatedAt, s.ExpiresAt); err != nil {
		return nil, fmt.Errorf("session: failed to store: %w", err)
	}

	return s, nil
}

// Resolve implements Store.
func (p *PostgresStore) Resolve(ctx context.Context, id string) (int64, bool, error) {
	if !ValidID(id) {
		return 0, false, nil
	}

	query := `SELECT user_id, expires_at FROM user_sessions WHERE id = $1`

	var (
		userID    int64
		expiresAt time.Time
	)
	err := p.pool.QueryRow(ctx, query, id).Scan(&userID, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("session: failed to load: %w", err)
	}

	if !p.now().Before(expiresAt) {
		_ = p.Destroy(ctx, id)
		return 0, false, nil
	}

	return userID, true, nil
}

// Destroy implements Store.
func (p *PostgresStore) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if _, err := p.pool.Exec(ctx, `DELETE FROM user_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("session: failed to delete: %w", err)
	}
	return nil
}

// PurgeExpired deletes every expired session and returns how many were removed.
func (p *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM user_sessions WHERE expires_at <= $1`, p.now())
	if err != nil {
		return 0, fmt.Errorf("session: failed to purge: %w", err)
	}
	return tag.RowsAffected(), nil
}
