package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/draftwell/draftwell/internal/api/middleware"
	"github.com/draftwell/draftwell/internal/domain"
	"github.com/draftwell/draftwell/internal/session"
	"github.com/draftwell/draftwell/pkg/twitter"
)

// ProfileCookie carries the cached display profile. It is readable by client
// script and therefore holds only non-sensitive display fields.
const ProfileCookie = "dw_profile"

// Connect-flow status values carried back to the app URL.
const (
	connectSuccess        = "success"
	connectDenied         = "denied"
	connectInvalidRequest = "invalid_request"
	connectInvalidState   = "invalid_state"
	connectExchangeFailed = "exchange_failed"
	connectProfileFailed  = "profile_failed"
)

// OAuthFlow is the provider authorization surface used by the handler.
type OAuthFlow interface {
	AuthCodeURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (*domain.TokenSet, error)
}

// UserFetcher fetches the token owner's profile.
type UserFetcher interface {
	GetUser(ctx context.Context, accessToken string) (*domain.ProviderUser, error)
}

// OAuthHandler runs the X connect flow. flow is nil when the OAuth client
// credentials are not configured; every invocation then fails with a
// configuration error before any secret is generated.
type OAuthHandler struct {
	flow   OAuthFlow
	api    UserFetcher
	store  session.Store
	appURL string
	secure bool
	logger *slog.Logger
}

// NewOAuthHandler creates the connect-flow handler.
func NewOAuthHandler(flow OAuthFlow, api UserFetcher, store session.Store, appURL string, secure bool, logger *slog.Logger) *OAuthHandler {
	return &OAuthHandler{
		flow:   flow,
		api:    api,
		store:  store,
		appURL: appURL,
		secure: secure,
		logger: logger,
	}
}

// Start handles GET /auth/twitter/start: generates the state and PKCE
// verifier, persists them, and redirects to the provider.
func (h *OAuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	if h.flow == nil {
		writeError(w, http.StatusInternalServerError, "Twitter OAuth not configured")
		return
	}

	state := twitter.GenerateState()
	verifier := twitter.GenerateVerifier()

	err := h.store.PutAuthFlow(r.Context(), &domain.AuthFlow{
		State:        state,
		CodeVerifier: verifier,
		SessionID:    middleware.SessionID(r),
		CreatedAt:    time.Now(),
	})
	if err != nil {
		h.logger.Error("store auth flow failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start connect flow")
		return
	}

	http.Redirect(w, r, h.flow.AuthCodeURL(state, verifier), http.StatusFound)
}

// Callback handles GET /auth/twitter/callback. Terminal states redirect back
// to the app URL with a status query parameter; token material never appears
// in a redirect URL.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if h.flow == nil {
		writeError(w, http.StatusInternalServerError, "Twitter OAuth not configured")
		return
	}

	q := r.URL.Query()
	if q.Get("error") != "" {
		h.redirect(w, r, connectDenied)
		return
	}
	code, state := q.Get("code"), q.Get("state")
	if code == "" || state == "" {
		h.redirect(w, r, connectInvalidRequest)
		return
	}

	// Single-use lookup: a replayed state finds nothing.
	flow, err := h.store.ConsumeAuthFlow(r.Context(), state)
	if err != nil {
		if !errors.Is(err, domain.ErrStateNotFound) && !errors.Is(err, domain.ErrStateExpired) {
			h.logger.Error("consume auth flow failed", "error", err)
		}
		h.redirect(w, r, connectInvalidState)
		return
	}
	if flow.SessionID != middleware.SessionID(r) {
		// Code minted for a different browser session.
		h.redirect(w, r, connectInvalidState)
		return
	}

	tokens, err := h.flow.Exchange(r.Context(), code, flow.CodeVerifier)
	if err != nil {
		h.logger.Warn("code exchange failed", "error", err)
		h.redirect(w, r, connectExchangeFailed)
		return
	}

	// An account we cannot identify is not worth storing.
	user, err := h.api.GetUser(r.Context(), tokens.AccessToken)
	if err != nil {
		h.logger.Warn("profile fetch failed", "error", err)
		h.redirect(w, r, connectProfileFailed)
		return
	}

	err = h.store.Put(r.Context(), &domain.Session{
		ID:     flow.SessionID,
		Tokens: tokens,
		User:   user,
	})
	if err != nil {
		h.logger.Error("persist session failed", "error", err)
		h.redirect(w, r, connectExchangeFailed)
		return
	}

	h.setProfileCookie(w, user)
	h.redirect(w, r, connectSuccess)
}

// Status handles GET /api/v1/social/status.
func (h *OAuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Get(r.Context(), middleware.SessionID(r))
	// The callback never commits tokens without a profile, but a session
	// with tokens and no user must not panic here either.
	if err != nil || !sess.Connected() || sess.User == nil {
		writeJSON(w, http.StatusOK, map[string]any{"connected": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"connected": true,
		"username":  sess.User.Username,
	})
}

// Disconnect handles POST /api/v1/social/disconnect.
func (h *OAuthHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), middleware.SessionID(r)); err != nil {
		h.logger.Error("delete session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to disconnect")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:   ProfileCookie,
		Path:   "/",
		MaxAge: -1,
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *OAuthHandler) redirect(w http.ResponseWriter, r *http.Request, status string) {
	http.Redirect(w, r, h.appURL+"/app?connect="+status, http.StatusFound)
}

func (h *OAuthHandler) setProfileCookie(w http.ResponseWriter, user *domain.ProviderUser) {
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     ProfileCookie,
		Value:    url.QueryEscape(string(data)),
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
