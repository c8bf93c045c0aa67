package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/giftwell/backend/internal/domain/cart"
	"github.com/giftwell/backend/internal/domain/shared"
)

// InMemorySessionStore keeps cart sessions in process memory.
// Suitable for single-instance deployments and testing. Sessions are
// stored as serialized snapshots so Get always hands back an independent
// copy, matching the Redis store's semantics.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]storedSession
	ttl      time.Duration
}

type storedSession struct {
	data      []byte
	expiresAt time.Time
}

// NewInMemorySessionStore creates an in-memory session store. Sessions
// live for the given TTL, refreshed on every write; ttl <= 0 disables
// expiry.
func NewInMemorySessionStore(ttl time.Duration) *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string]storedSession),
		ttl:      ttl,
	}
}

// Get returns the session with the given id
func (s *InMemorySessionStore) Get(ctx context.Context, id string) (*cart.Session, error) {
	s.mu.RLock()
	stored, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, shared.ErrNotFound
	}
	if s.ttl > 0 && time.Now().After(stored.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, shared.ErrNotFound
	}

	var session cart.Session
	if err := json.Unmarshal(stored.data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Put writes the session back, refreshing its TTL
func (s *InMemorySessionStore) Put(ctx context.Context, session *cart.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = storedSession{
		data:      data,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Delete removes the session. Deleting an absent session is a no-op.
func (s *InMemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len returns the number of stored sessions
func (s *InMemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
