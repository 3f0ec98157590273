package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/draftwell/draftwell/internal/domain"
	"github.com/draftwell/draftwell/internal/service"
)

// TrendingHandler handles trending-topics requests.
type TrendingHandler struct {
	trending *service.TrendingService
	logger   *slog.Logger
}

// NewTrendingHandler creates a new trending handler.
func NewTrendingHandler(trending *service.TrendingService, logger *slog.Logger) *TrendingHandler {
	return &TrendingHandler{
		trending: trending,
		logger:   logger,
	}
}

// TrendingRequest is the JSON request body.
type TrendingRequest struct {
	Category string `json:"category"`
	Country  string `json:"country,omitempty"`
}

// TrendingResponse carries exactly ten topics.
type TrendingResponse struct {
	Topics []domain.TrendingTopic `json:"topics"`
}

// Topics handles POST /api/v1/trending.
func (h *TrendingHandler) Topics(w http.ResponseWriter, r *http.Request) {
	var req TrendingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}

	topics, err := h.trending.Topics(r.Context(), req.Category, req.Country)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedCategory) {
			writeError(w, http.StatusBadRequest, "unsupported category")
			return
		}
		h.logger.Error("trending failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load trending topics")
		return
	}

	writeJSON(w, http.StatusOK, TrendingResponse{Topics: topics})
}
