package session

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/draftwell/draftwell/internal/domain"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions.db")
	store, err := NewSQLiteStore(path, "test-passphrase", time.Hour)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_PutGetRoundtrip(t *testing.T) {
	store := newTestSQLiteStore(t)

	expires := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	s := &domain.Session{
		ID: "sess-1",
		Tokens: &domain.TokenSet{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			ExpiresAt:    expires,
		},
		User: &domain.ProviderUser{ID: "42", Username: "ada", DisplayName: "Ada L"},
	}
	if err := store.Put(context.Background(), s); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Tokens.AccessToken != "access-token" {
		t.Errorf("access token = %q, want %q", got.Tokens.AccessToken, "access-token")
	}
	if got.Tokens.RefreshToken != "refresh-token" {
		t.Errorf("refresh token = %q, want %q", got.Tokens.RefreshToken, "refresh-token")
	}
	if got.User.DisplayName != "Ada L" {
		t.Errorf("display name = %q, want %q", got.User.DisplayName, "Ada L")
	}
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	store := newTestSQLiteStore(t)

	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Get() error = %v, want ErrSessionNotFound", err)
	}
}

func TestSQLiteStore_PutOverwrites(t *testing.T) {
	store := newTestSQLiteStore(t)

	store.Put(context.Background(), &domain.Session{
		ID:     "sess-1",
		Tokens: &domain.TokenSet{AccessToken: "first"},
	})
	store.Put(context.Background(), &domain.Session{
		ID:     "sess-1",
		Tokens: &domain.TokenSet{AccessToken: "second"},
	})

	got, err := store.Get(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Tokens.AccessToken != "second" {
		t.Errorf("access token = %q, want %q", got.Tokens.AccessToken, "second")
	}
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := newTestSQLiteStore(t)

	store.Put(context.Background(), &domain.Session{ID: "gone"})
	if err := store.Delete(context.Background(), "gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(context.Background(), "gone"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrSessionNotFound", err)
	}
}

func TestSQLiteStore_TokensSealedAtRest(t *testing.T) {
	store := newTestSQLiteStore(t)

	store.Put(context.Background(), &domain.Session{
		ID:     "sess-1",
		Tokens: &domain.TokenSet{AccessToken: "super-secret-token"},
	})

	var data []byte
	err := store.db.QueryRow(`SELECT data FROM sessions WHERE id = ?`, "sess-1").Scan(&data)
	if err != nil {
		t.Fatalf("query raw row: %v", err)
	}
	if bytes.Contains(data, []byte("super-secret-token")) {
		t.Error("access token stored in plaintext")
	}
}

func TestSQLiteStore_ConsumeAuthFlow_SingleUse(t *testing.T) {
	store := newTestSQLiteStore(t)

	flow := &domain.AuthFlow{
		State:        "abc123",
		CodeVerifier: "pkce-verifier",
		SessionID:    "sess-1",
		RedirectURI:  "https://app.example.com/callback",
	}
	if err := store.PutAuthFlow(context.Background(), flow); err != nil {
		t.Fatalf("PutAuthFlow() error = %v", err)
	}

	got, err := store.ConsumeAuthFlow(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("ConsumeAuthFlow() error = %v", err)
	}
	if got.CodeVerifier != "pkce-verifier" {
		t.Errorf("verifier = %q, want %q", got.CodeVerifier, "pkce-verifier")
	}
	if got.SessionID != "sess-1" {
		t.Errorf("session id = %q, want %q", got.SessionID, "sess-1")
	}
	if got.RedirectURI != "https://app.example.com/callback" {
		t.Errorf("redirect uri = %q, want %q", got.RedirectURI, "https://app.example.com/callback")
	}

	if _, err := store.ConsumeAuthFlow(context.Background(), "abc123"); !errors.Is(err, domain.ErrStateNotFound) {
		t.Errorf("replayed ConsumeAuthFlow() error = %v, want ErrStateNotFound", err)
	}
}

func TestSQLiteStore_ConsumeAuthFlow_Expired(t *testing.T) {
	store := newTestSQLiteStore(t)

	store.PutAuthFlow(context.Background(), &domain.AuthFlow{
		State:        "stale",
		CodeVerifier: "v",
		CreatedAt:    time.Now().Add(-domain.AuthFlowTTL + time.Minute),
	})

	// Age the row past the TTL directly; PutAuthFlow would sweep an
	// already-expired insert.
	cutoff := time.Now().Add(-domain.AuthFlowTTL - time.Minute).Unix()
	if _, err := store.db.Exec(`UPDATE auth_flows SET created_at = ? WHERE state = ?`, cutoff, "stale"); err != nil {
		t.Fatalf("age row: %v", err)
	}

	_, err := store.ConsumeAuthFlow(context.Background(), "stale")
	if !errors.Is(err, domain.ErrStateExpired) {
		t.Errorf("ConsumeAuthFlow() error = %v, want ErrStateExpired", err)
	}

	// The expired row is still consumed.
	if _, err := store.ConsumeAuthFlow(context.Background(), "stale"); !errors.Is(err, domain.ErrStateNotFound) {
		t.Errorf("second ConsumeAuthFlow() error = %v, want ErrStateNotFound", err)
	}
}

func TestSQLiteStore_ReopenKeepsSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	store, err := NewSQLiteStore(path, "pass", time.Hour)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	store.Put(context.Background(), &domain.Session{
		ID:     "sess-1",
		Tokens: &domain.TokenSet{AccessToken: "tok"},
	})
	store.Close()

	reopened, err := NewSQLiteStore(path, "pass", time.Hour)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if got.Tokens.AccessToken != "tok" {
		t.Errorf("access token = %q, want %q", got.Tokens.AccessToken, "tok")
	}
}

func TestSQLiteStore_WrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	store, err := NewSQLiteStore(path, "correct", time.Hour)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	store.Put(context.Background(), &domain.Session{
		ID:     "sess-1",
		Tokens: &domain.TokenSet{AccessToken: "tok"},
	})
	store.Close()

	reopened, err := NewSQLiteStore(path, "wrong", time.Hour)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.Get(context.Background(), "sess-1"); err == nil {
		t.Error("Get() with wrong passphrase should fail")
	}
}
