package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/draftwell/draftwell/internal/api"
	"github.com/draftwell/draftwell/internal/api/handler"
	"github.com/draftwell/draftwell/internal/config"
	"github.com/draftwell/draftwell/internal/extract"
	"github.com/draftwell/draftwell/internal/service"
	"github.com/draftwell/draftwell/internal/session"
	"github.com/draftwell/draftwell/pkg/openai"
	"github.com/draftwell/draftwell/pkg/perplexity"
	"github.com/draftwell/draftwell/pkg/serper"
	"github.com/draftwell/draftwell/pkg/transcript"
	"github.com/draftwell/draftwell/pkg/twitter"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("draftwell %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting draftwell",
		"version", Version,
		"build_time", BuildTime,
	)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize session store
	var store session.Store
	switch cfg.Session.Backend {
	case "sqlite":
		store, err = session.NewSQLiteStore(cfg.Session.Path, cfg.Session.Passphrase, cfg.Session.TTL)
		if err != nil {
			logger.Error("failed to open session store", "error", err, "path", cfg.Session.Path)
			os.Exit(1)
		}
	default:
		store = session.NewMemoryStore(cfg.Session.TTL)
	}
	defer store.Close()

	// Initialize provider clients. Serper and Perplexity are optional;
	// services degrade to their fallback paths when a client is nil.
	aiClient := openai.NewClient(cfg.OpenAI)

	var searchClient serper.Client
	if cfg.Serper.APIKey != "" {
		searchClient = serper.NewClient(cfg.Serper)
	} else {
		logger.Warn("SERPER_API_KEY not set, search enrichment disabled")
	}

	var researchClient perplexity.Client
	if cfg.Perplexity.APIKey != "" {
		researchClient = perplexity.NewClient(cfg.Perplexity)
	} else {
		logger.Warn("PERPLEXITY_API_KEY not set, trending research disabled")
	}

	twitterClient := twitter.NewClient(cfg.Twitter)

	var oauthFlow handler.OAuthFlow
	if cfg.Twitter.OAuthConfigured() {
		oauthFlow = twitter.NewOAuthFlow(cfg.Twitter)
	} else {
		logger.Warn("Twitter OAuth credentials not set, connect flow disabled")
	}

	// Initialize services
	pipeline := extract.NewPipeline(transcript.NewClient(), searchClient, logger)
	contentSvc := service.NewContentService(aiClient, searchClient, logger)
	summarizeSvc := service.NewSummarizeService(aiClient, pipeline, cfg.OpenAI.LargeModel, logger)
	trendingSvc := service.NewTrendingService(searchClient, researchClient, aiClient, logger)

	// Initialize handlers
	oauthHandler := handler.NewOAuthHandler(oauthFlow, twitterClient, store, cfg.Server.AppURL, cfg.Server.Production, logger)
	socialHandler := handler.NewSocialHandler(twitterClient, store, cfg.Server.Production, logger)
	generateHandler := handler.NewGenerateHandler(contentSvc, cfg.Server.Production, logger)
	summarizeHandler := handler.NewSummarizeHandler(summarizeSvc, cfg.Server.Production, logger)
	trendingHandler := handler.NewTrendingHandler(trendingSvc, logger)
	healthHandler := handler.NewHealthHandler(store)

	// Setup router
	router := api.NewRouter(
		oauthHandler,
		socialHandler,
		generateHandler,
		summarizeHandler,
		trendingHandler,
		healthHandler,
		cfg.Server.APIKey,
		cfg.Server.Production,
	)

	// Setup HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
