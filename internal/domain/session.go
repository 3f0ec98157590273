package domain

import "time"

// SessionID identifies a browser session.
type SessionID string

func (id SessionID) String() string { return string(id) }

// TokenSet holds OAuth2 tokens issued by the social provider.
// The access token is bounded by ExpiresAt; the refresh token by RefreshExpiresAt
// (a fixed 30-day cap). No in-place refresh is performed: re-running the connect
// flow replaces the whole set.
type TokenSet struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token,omitempty"`
	ExpiresAt        time.Time `json:"expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at,omitempty"`
}

// RefreshTokenTTL is the fixed cap applied to refresh tokens.
const RefreshTokenTTL = 30 * 24 * time.Hour

// Valid reports whether the access token is present and unexpired.
func (t *TokenSet) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	return t.ExpiresAt.IsZero() || time.Now().Before(t.ExpiresAt)
}

// ProviderUser is the cached display profile of the connected X account.
// Read-only display data; re-fetched on demand.
type ProviderUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// AuthFlow is a pending OAuth authorization flow entry, keyed by state.
// Single-use: consumed exactly once by the callback, expired after AuthFlowTTL.
type AuthFlow struct {
	State        string
	CodeVerifier string
	SessionID    SessionID
	RedirectURI  string
	CreatedAt    time.Time
}

// AuthFlowTTL bounds how long a pending authorization flow stays valid.
const AuthFlowTTL = 10 * time.Minute

// Expired reports whether the flow entry is past its TTL.
func (f *AuthFlow) Expired(now time.Time) bool {
	return now.Sub(f.CreatedAt) > AuthFlowTTL
}

// Session is the per-browser credential record.
type Session struct {
	ID        SessionID     `json:"id"`
	Tokens    *TokenSet     `json:"tokens,omitempty"`
	User      *ProviderUser `json:"user,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Connected reports whether the session holds a usable access token.
func (s *Session) Connected() bool {
	return s != nil && s.Tokens.Valid()
}
