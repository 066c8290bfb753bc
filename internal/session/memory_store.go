package session

import (
	"context"
	"sync"
	"time"
)

// pruneEvery controls how many creates pass between sweeps of expired entries.
const pruneEvery = 128

// MemoryStore keeps sessions in process memory. Sessions are lost on restart
// and are not shared between instances.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	creates  int
}

// NewMemoryStore creates an in-memory store with the given session lifetime.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create implements Store.
func (m *MemoryStore) Create(_ context.Context, userID int64) (*Session, error) {
	s, err := newSession(userID, m.now(), m.ttl)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ID] = s
	m.creates++
	if m.creates%pruneEvery == 0 {
		m.pruneLocked(s.CreatedAt)
	}

	cp := *s
	return &cp, nil
}

// Resolve implements Store. Expired sessions are removed on sight.
func (m *MemoryStore) Resolve(_ context.Context, id string) (int64, bool, error) {
	if !ValidID(id) {
		return 0, false, nil
	}

	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return 0, false, nil
	}

	if s.Expired(m.now()) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return 0, false, nil
	}

	return s.UserID, true, nil
}

// Destroy implements Store.
func (m *MemoryStore) Destroy(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) pruneLocked(now time.Time) {
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
		}
	}
}
