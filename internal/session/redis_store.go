package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis with a key TTL equal to the session
// lifetime, so expiry is handled by Redis itself.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "session:",
		ttl:    ttl,
		now:    time.Now,
	}
}

func (r *RedisStore) key(sessionID string) string {
	return r.prefix + sessionID
}

// Create implements Store.
func (r *RedisStore) Create(ctx context.Context, userID int64) (*Session, error) {
	s, err := newSession(userID, r.now(), r.ttl)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("session: failed to marshal: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.key(s.ID), data, s.ExpiresAt.Sub(s.CreatedAt)).Result()
	if err != nil {
		return nil, fmt.Errorf("session: failed to store: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("session: id collision")
	}

	return s, nil
}

// Resolve implements Store.
func (r *RedisStore) Resolve(ctx context.Context, id string) (int64, bool, error) {
	if !ValidID(id) {
		return 0, false, nil
	}

	val, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("session: failed to load: %w", err)
	}

	var s Session
	if err := json.Unmarshal(val, &s); err != nil {
		return 0, false, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	if s.Expired(r.now()) {
		_ = r.client.Del(ctx, r.key(id)).Err()
		return 0, false, nil
	}

	return s.UserID, true, nil
}

// Destroy implements Store.
func (r *RedisStore) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("session: failed to delete: %w", err)
	}
	return nil
}
