package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/draftwell/draftwell/internal/domain"
	"github.com/draftwell/draftwell/internal/service"
)

// SummarizeHandler handles article and video summarization requests.
type SummarizeHandler struct {
	summaries  *service.SummarizeService
	logger     *slog.Logger
	production bool
}

// NewSummarizeHandler creates a new summarize handler.
func NewSummarizeHandler(summaries *service.SummarizeService, production bool, logger *slog.Logger) *SummarizeHandler {
	return &SummarizeHandler{
		summaries:  summaries,
		logger:     logger,
		production: production,
	}
}

// SummarizeRequest is the JSON request body for both summarize endpoints.
type SummarizeRequest struct {
	URL string `json:"url"`
}

// SummarizeResponse is the generated summary and social content.
type SummarizeResponse struct {
	Title         string   `json:"title"`
	Summary       string   `json:"summary"`
	LinkedInPost  string   `json:"linkedinPost"`
	TwitterThread []string `json:"twitterThread"`
	OriginalURL   string   `json:"originalUrl"`
}

// Article handles POST /api/v1/summarize/article.
func (h *SummarizeHandler) Article(w http.ResponseWriter, r *http.Request) {
	url, ok := h.decode(w, r)
	if !ok {
		return
	}

	summary, err := h.summaries.Article(r.Context(), url)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArticleURL) {
			writeError(w, http.StatusBadRequest, "please provide a valid article URL")
			return
		}
		h.fail(w, err, "failed to summarize article")
		return
	}

	h.respond(w, summary)
}

// Video handles POST /api/v1/summarize/video.
func (h *SummarizeHandler) Video(w http.ResponseWriter, r *http.Request) {
	url, ok := h.decode(w, r)
	if !ok {
		return
	}

	summary, err := h.summaries.Video(r.Context(), url)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidVideoURL) {
			writeError(w, http.StatusBadRequest, "please provide a valid YouTube URL")
			return
		}
		h.fail(w, err, "failed to summarize video")
		return
	}

	h.respond(w, summary)
}

func (h *SummarizeHandler) decode(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "URL is required and must be a string")
		return "", false
	}
	return req.URL, true
}

func (h *SummarizeHandler) fail(w http.ResponseWriter, err error, message string) {
	var uerr *domain.UpstreamError
	if errors.As(err, &uerr) {
		h.logger.Warn(message, "error", err, "body", uerr.Body)
		writeErrorDetails(w, http.StatusBadGateway, message, uerr.Error(), h.production)
		return
	}
	h.logger.Error(message, "error", err)
	writeErrorDetails(w, http.StatusInternalServerError, message, err.Error(), h.production)
}

func (h *SummarizeHandler) respond(w http.ResponseWriter, summary *domain.Summary) {
	writeJSON(w, http.StatusOK, SummarizeResponse{
		Title:         summary.Title,
		Summary:       summary.Summary,
		LinkedInPost:  summary.LinkedInPost,
		TwitterThread: summary.TwitterThread,
		OriginalURL:   summary.OriginalURL,
	})
}
