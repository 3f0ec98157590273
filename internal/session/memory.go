package session

import (
	"context"
	"sync"
	"time"

	"github.com/draftwell/draftwell/internal/domain"
)

// MemoryStore is a thread-safe in-memory Store for single-replica deployments.
type MemoryStore struct {
	ttl time.Duration

	mu       sync.Mutex
	sessions map[domain.SessionID]*domain.Session
	flows    map[string]*domain.AuthFlow
}

// NewMemoryStore creates an in-memory store. ttl bounds session lifetime;
// zero means sessions never expire.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[domain.SessionID]*domain.Session),
		flows:    make(map[string]*domain.AuthFlow),
	}
}

func (m *MemoryStore) Get(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if m.ttl > 0 && time.Since(s.UpdatedAt) > m.ttl {
		delete(m.sessions, id)
		return nil, domain.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) Put(ctx context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *s
	cp.UpdatedAt = time.Now()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = cp.UpdatedAt
	}
	m.sessions[s.ID] = &cp
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id domain.SessionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) PutAuthFlow(ctx context.Context, f *domain.AuthFlow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Sweep expired flows while we hold the lock; the map stays small.
	// The sweep runs before the insert so the new entry is never removed:
	// ConsumeAuthFlow must see it to report ErrStateExpired rather than
	// ErrStateNotFound.
	now := time.Now()
	for state, pending := range m.flows {
		if pending.Expired(now) {
			delete(m.flows, state)
		}
	}

	cp := *f
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
	}
	m.flows[f.State] = &cp
	return nil
}

func (m *MemoryStore) ConsumeAuthFlow(ctx context.Context, state string) (*domain.AuthFlow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.flows[state]
	if !ok {
		return nil, domain.ErrStateNotFound
	}
	delete(m.flows, state)
	if f.Expired(time.Now()) {
		return nil, domain.ErrStateExpired
	}
	cp := *f
	return &cp, nil
}

func (m *MemoryStore) Close() error { return nil }
