// Package session keeps the server-side mapping from opaque session ids to
// user ids and issues the cookie that carries the id.
package session

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is the session lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

// ErrInvalidUser is returned when a session is requested for a non-positive user id.
var ErrInvalidUser = errors.New("session: invalid user id")

// Session binds a random id to a user until ExpiresAt.
// Sessions are never mutated after creation.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions. Implementations must be safe for concurrent use.
type Store interface {
	// Create starts a new session for userID.
	Create(ctx context.Context, userID int64) (*Session, error)
	// Resolve returns the user bound to id. ok is false when the session
	// does not exist or has expired.
	Resolve(ctx context.Context, id string) (userID int64, ok bool, err error)
	// Destroy removes the session. Destroying an unknown id is not an error.
	Destroy(ctx context.Context, id string) error
}

// newSession builds a fresh session for userID valid for ttl from now.
func newSession(userID int64, now time.Time, ttl time.Duration) (*Session, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}
