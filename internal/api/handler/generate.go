package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/draftwell/draftwell/internal/domain"
	"github.com/draftwell/draftwell/internal/service"
)

// GenerateHandler handles content and image generation requests.
type GenerateHandler struct {
	content    *service.ContentService
	logger     *slog.Logger
	production bool
}

// NewGenerateHandler creates a new generation handler.
func NewGenerateHandler(content *service.ContentService, production bool, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{
		content:    content,
		logger:     logger,
		production: production,
	}
}

// ContentRequest is the JSON request body for content generation.
type ContentRequest struct {
	Topic string `json:"topic"`
	Mode  string `json:"mode,omitempty"`
	Mood  string `json:"mood,omitempty"`
}

// ContentResponse is the generated content set.
type ContentResponse struct {
	Topic          string     `json:"topic"`
	Tweets         []string   `json:"tweets"`
	LinkedInPosts  []string   `json:"linkedinPosts"`
	SearchResults  []string   `json:"searchResults"`
	Threads        [][]string `json:"threads,omitempty"`
	InstagramPosts []string   `json:"instagramPosts,omitempty"`
}

// Content handles POST /api/v1/generate/content.
func (h *GenerateHandler) Content(w http.ResponseWriter, r *http.Request) {
	var req ContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required and must be a non-empty string")
		return
	}

	set, err := h.content.Generate(r.Context(), req.Topic, domain.ContentMode(req.Mode), domain.ContentMood(req.Mood))
	if err != nil {
		if errors.Is(err, domain.ErrEmptyTopic) {
			writeError(w, http.StatusBadRequest, "topic cannot be empty")
			return
		}
		if errors.Is(err, domain.ErrUnsupportedMood) {
			writeError(w, http.StatusBadRequest, "unsupported mood")
			return
		}
		h.logger.Error("content generation failed", "error", err)
		writeErrorDetails(w, http.StatusBadGateway, "content generation failed", err.Error(), h.production)
		return
	}

	writeJSON(w, http.StatusOK, ContentResponse{
		Topic:          set.Topic,
		Tweets:         set.Tweets,
		LinkedInPosts:  set.LinkedInPosts,
		SearchResults:  set.SearchResults,
		Threads:        set.Threads,
		InstagramPosts: set.InstagramPosts,
	})
}

// ImageRequest is the JSON request body for image generation.
type ImageRequest struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size,omitempty"`
}

// Image handles POST /api/v1/generate/image.
func (h *GenerateHandler) Image(w http.ResponseWriter, r *http.Request) {
	var req ImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required and must be a string")
		return
	}

	image, err := h.content.GenerateImage(r.Context(), req.Prompt, req.Size)
	if err != nil {
		var uerr *domain.UpstreamError
		if errors.As(err, &uerr) {
			h.logger.Warn("image generation failed", "error", err, "body", uerr.Body)
			writeErrorDetails(w, http.StatusBadGateway, "image generation failed", uerr.Error(), h.production)
			return
		}
		h.logger.Error("image generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "image generation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"imageBase64": image})
}
