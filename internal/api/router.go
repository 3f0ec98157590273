package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/draftwell/draftwell/internal/api/handler"
	mw "github.com/draftwell/draftwell/internal/api/middleware"
)

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(
	oauthHandler *handler.OAuthHandler,
	socialHandler *handler.SocialHandler,
	generateHandler *handler.GenerateHandler,
	summarizeHandler *handler.SummarizeHandler,
	trendingHandler *handler.TrendingHandler,
	healthHandler *handler.HealthHandler,
	apiKey string,
	secureCookies bool,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CleanPath) // Normalize paths (e.g., //ready -> /ready)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(middleware.Timeout(2 * time.Minute))

	// CORS for the web frontend
	r.Use(mw.CORS)

	// Every request carries a session cookie; the OAuth flow and the
	// social endpoints key credentials off it.
	r.Use(mw.Session(secureCookies))

	// Health endpoints (no auth)
	r.Get("/health", healthHandler.Live)
	r.Get("/ready", healthHandler.Ready)

	// Flow initiation is a browser navigation, so the API key arrives as
	// ?key=. The callback must stay open: it is a redirect from X.
	r.With(mw.APIKeyAuth(apiKey)).Get("/auth/twitter/start", oauthHandler.Start)
	r.Get("/auth/twitter/callback", oauthHandler.Callback)

	// API v1 (authenticated)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(apiKey))

		// Connected-account operations
		r.Get("/social/status", oauthHandler.Status)
		r.Post("/social/disconnect", oauthHandler.Disconnect)
		r.Get("/social/profile", socialHandler.Profile)
		r.Post("/social/post", socialHandler.Post)

		// Content generation
		r.Post("/generate/content", generateHandler.Content)
		r.Post("/generate/image", generateHandler.Image)

		// Summarization
		r.Post("/summarize/article", summarizeHandler.Article)
		r.Post("/summarize/video", summarizeHandler.Video)

		// Trending topics
		r.Post("/trending", trendingHandler.Topics)
	})

	return r
}
