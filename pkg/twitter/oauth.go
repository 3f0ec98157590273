package twitter

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/draftwell/draftwell/internal/config"
	"github.com/draftwell/draftwell/internal/domain"
)

// Scopes requested from X. offline.access is required for a refresh token.
var Scopes = []string{"tweet.read", "tweet.write", "users.read", "offline.access"}

// OAuthFlow builds authorization URLs and exchanges authorization codes.
type OAuthFlow struct {
	conf *oauth2.Config
}

// NewOAuthFlow creates the flow from configuration. Callers must check
// cfg.OAuthConfigured() first; an unconfigured flow is a configuration error.
func NewOAuthFlow(cfg config.TwitterConfig) *OAuthFlow {
	return &OAuthFlow{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
	}
}

// GenerateState returns a random URL-safe state token (24 bytes of entropy).
func GenerateState() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// GenerateVerifier returns a fresh PKCE code verifier.
func GenerateVerifier() string {
	return oauth2.GenerateVerifier()
}

// AuthCodeURL builds the provider authorization URL with state and an S256
// challenge derived from verifier.
func (f *OAuthFlow) AuthCodeURL(state, verifier string) string {
	return f.conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)
}

// Exchange submits the authorization code and verifier to the token endpoint.
func (f *OAuthFlow) Exchange(ctx context.Context, code, verifier string) (*domain.TokenSet, error) {
	tok, err := f.conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			status := 0
			if rerr.Response != nil {
				status = rerr.Response.StatusCode
			}
			return nil, &domain.UpstreamError{
				Provider: "twitter",
				Op:       "token exchange",
				Status:   status,
				Body:     string(rerr.Body),
				Err:      err,
			}
		}
		return nil, &domain.UpstreamError{Provider: "twitter", Op: "token exchange", Err: err}
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}

	set := &domain.TokenSet{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	}
	if set.RefreshToken != "" {
		set.RefreshExpiresAt = time.Now().Add(domain.RefreshTokenTTL)
	}
	return set, nil
}
