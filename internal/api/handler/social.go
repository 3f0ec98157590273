package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/draftwell/draftwell/internal/api/middleware"
	"github.com/draftwell/draftwell/internal/domain"
	"github.com/draftwell/draftwell/internal/session"
	"github.com/draftwell/draftwell/pkg/twitter"
)

// SocialAPI is the authenticated provider surface used by the handler.
type SocialAPI interface {
	PostTweet(ctx context.Context, accessToken, text string) (*twitter.Post, error)
	GetUser(ctx context.Context, accessToken string) (*domain.ProviderUser, error)
}

// SocialHandler proxies authenticated calls to the social provider.
// One attempt per call; no retry, refresh, or queueing.
type SocialHandler struct {
	api        SocialAPI
	store      session.Store
	logger     *slog.Logger
	production bool
}

// NewSocialHandler creates a new social proxy handler.
func NewSocialHandler(api SocialAPI, store session.Store, production bool, logger *slog.Logger) *SocialHandler {
	return &SocialHandler{
		api:        api,
		store:      store,
		logger:     logger,
		production: production,
	}
}

// PostRequest is the JSON request body for posting.
type PostRequest struct {
	Text string `json:"text"`
}

// PostResponse is the JSON response after a successful post.
type PostResponse struct {
	Success bool         `json:"success"`
	Tweet   twitter.Post `json:"tweet"`
}

// Post handles POST /api/v1/social/post.
func (h *SocialHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "tweet text is required")
		return
	}

	token, ok := h.accessToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated with Twitter")
		return
	}

	post, err := h.api.PostTweet(r.Context(), token, req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrPostTooLong) {
			writeError(w, http.StatusBadRequest, "tweet is too long (max 280 characters)")
			return
		}
		var uerr *domain.UpstreamError
		if errors.As(err, &uerr) {
			h.logger.Warn("post failed", "error", err, "body", uerr.Body)
			writeErrorDetails(w, http.StatusBadGateway, "failed to post tweet", uerr.Error(), h.production)
			return
		}
		h.logger.Error("post failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to post tweet")
		return
	}

	writeJSON(w, http.StatusOK, PostResponse{Success: true, Tweet: *post})
}

// Profile handles GET /api/v1/social/profile.
func (h *SocialHandler) Profile(w http.ResponseWriter, r *http.Request) {
	token, ok := h.accessToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated with Twitter")
		return
	}

	user, err := h.api.GetUser(r.Context(), token)
	if err != nil {
		var uerr *domain.UpstreamError
		if errors.As(err, &uerr) {
			h.logger.Warn("profile fetch failed", "error", err, "body", uerr.Body)
			writeErrorDetails(w, http.StatusBadGateway, "failed to get user info", uerr.Error(), h.production)
			return
		}
		h.logger.Error("profile fetch failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get user info")
		return
	}

	// Refresh the cached profile alongside the tokens.
	if sess, gerr := h.store.Get(r.Context(), middleware.SessionID(r)); gerr == nil {
		sess.User = user
		if perr := h.store.Put(r.Context(), sess); perr != nil {
			h.logger.Warn("profile cache update failed", "error", perr)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

// accessToken pulls a valid access token for the request's session.
func (h *SocialHandler) accessToken(r *http.Request) (string, bool) {
	sess, err := h.store.Get(r.Context(), middleware.SessionID(r))
	if err != nil || !sess.Connected() {
		return "", false
	}
	return sess.Tokens.AccessToken, true
}
