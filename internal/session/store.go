// Package session holds per-browser credential state behind a swappable store.
package session

import (
	"context"

	"github.com/draftwell/draftwell/internal/domain"
)

// Store is the credential store. Sessions are keyed by opaque session id;
// pending OAuth flows are keyed by state and are strictly single-use.
type Store interface {
	// Get returns the session for id, or domain.ErrSessionNotFound.
	Get(ctx context.Context, id domain.SessionID) (*domain.Session, error)
	// Put inserts or replaces a session.
	Put(ctx context.Context, s *domain.Session) error
	// Delete removes a session. Deleting an absent session is not an error.
	Delete(ctx context.Context, id domain.SessionID) error

	// PutAuthFlow stores a pending OAuth flow keyed by its state.
	PutAuthFlow(ctx context.Context, f *domain.AuthFlow) error
	// ConsumeAuthFlow atomically returns and removes the flow for state.
	// Returns domain.ErrStateNotFound for unknown or already-consumed states,
	// domain.ErrStateExpired for entries past their TTL (also removed).
	ConsumeAuthFlow(ctx context.Context, state string) (*domain.AuthFlow, error)

	// Close releases backing resources.
	Close() error
}
