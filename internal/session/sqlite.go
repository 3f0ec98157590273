package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/draftwell/draftwell/internal/domain"
	"github.com/draftwell/draftwell/pkg/crypto"
)

// SQLiteStore persists sessions in SQLite. Token material is sealed with the
// configured passphrase before it touches disk.
type SQLiteStore struct {
	db         *sql.DB
	passphrase string
	ttl        time.Duration
}

// NewSQLiteStore opens (and migrates) the session database at path.
func NewSQLiteStore(path, passphrase string, ttl time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS auth_flows (
		state        TEXT PRIMARY KEY,
		verifier     BLOB NOT NULL,
		session_id   TEXT NOT NULL,
		redirect_uri TEXT NOT NULL,
		created_at   INTEGER NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate session db: %w", err)
	}

	return &SQLiteStore{db: db, passphrase: passphrase, ttl: ttl}, nil
}

// sessionRecord is the sealed JSON payload of a session row.
type sessionRecord struct {
	Tokens *domain.TokenSet     `json:"tokens,omitempty"`
	User   *domain.ProviderUser `json:"user,omitempty"`
}

func (s *SQLiteStore) Get(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	var (
		data      []byte
		createdAt int64
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT data, created_at, updated_at FROM sessions WHERE id = ?`, string(id),
	).Scan(&data, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}

	updated := time.Unix(updatedAt, 0)
	if s.ttl > 0 && time.Since(updated) > s.ttl {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, string(id))
		return nil, domain.ErrSessionNotFound
	}

	plain, err := crypto.Open(data, s.passphrase)
	if err != nil {
		return nil, fmt.Errorf("unseal session: %w", err)
	}
	var rec sessionRecord
	if err := json.Unmarshal(plain, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	return &domain.Session{
		ID:        id,
		Tokens:    rec.Tokens,
		User:      rec.User,
		CreatedAt: time.Unix(createdAt, 0),
		UpdatedAt: updated,
	}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, sess *domain.Session) error {
	plain, err := json.Marshal(sessionRecord{Tokens: sess.Tokens, User: sess.User})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	sealed, err := crypto.Seal(plain, s.passphrase)
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}

	now := time.Now().Unix()
	created := now
	if !sess.CreatedAt.IsZero() {
		created = sess.CreatedAt.Unix()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, data, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(sess.ID), sealed, created, now)
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id domain.SessionID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) PutAuthFlow(ctx context.Context, f *domain.AuthFlow) error {
	sealed, err := crypto.Seal([]byte(f.CodeVerifier), s.passphrase)
	if err != nil {
		return fmt.Errorf("seal verifier: %w", err)
	}

	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO auth_flows (state, verifier, session_id, redirect_uri, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(state) DO UPDATE SET verifier = excluded.verifier, session_id = excluded.session_id,
			redirect_uri = excluded.redirect_uri, created_at = excluded.created_at`,
		f.State, sealed, string(f.SessionID), f.RedirectURI, created.Unix())
	if err != nil {
		return fmt.Errorf("store auth flow: %w", err)
	}

	// Expired entries accumulate only when callbacks never arrive.
	cutoff := time.Now().Add(-domain.AuthFlowTTL).Unix()
	_, _ = s.db.ExecContext(ctx, `DELETE FROM auth_flows WHERE created_at < ?`, cutoff)
	return nil
}

func (s *SQLiteStore) ConsumeAuthFlow(ctx context.Context, state string) (*domain.AuthFlow, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		sealed      []byte
		sessionID   string
		redirectURI string
		createdAt   int64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT verifier, session_id, redirect_uri, created_at FROM auth_flows WHERE state = ?`, state,
	).Scan(&sealed, &sessionID, &redirectURI, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query auth flow: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM auth_flows WHERE state = ?`, state); err != nil {
		return nil, fmt.Errorf("delete auth flow: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	flow := &domain.AuthFlow{
		State:       state,
		SessionID:   domain.SessionID(sessionID),
		RedirectURI: redirectURI,
		CreatedAt:   time.Unix(createdAt, 0),
	}
	if flow.Expired(time.Now()) {
		return nil, domain.ErrStateExpired
	}

	verifier, err := crypto.Open(sealed, s.passphrase)
	if err != nil {
		return nil, fmt.Errorf("unseal verifier: %w", err)
	}
	flow.CodeVerifier = string(verifier)
	return flow, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
