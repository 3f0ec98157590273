// Package extract assembles best-effort metadata for external URLs.
//
// The pipeline tries the cheapest reliable source first and falls back when a
// source is unavailable, unkeyed, or returns nothing usable. A source failure
// is logged and swallowed; the pipeline always returns a fully-populated
// result, substituting placeholder defaults for anything unresolved.
package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/draftwell/draftwell/internal/domain"
	"github.com/draftwell/draftwell/pkg/serper"
	"github.com/draftwell/draftwell/pkg/transcript"
)

// Pipeline extracts content metadata. Transcripts and search are optional
// sources; either may be nil.
type Pipeline struct {
	transcripts transcript.Client
	search      serper.Client
	logger      *slog.Logger

	watchBaseURL string
	userAgent    string
	httpClient   *http.Client
}

// Option configures the Pipeline.
type Option func(*Pipeline)

// WithWatchBaseURL overrides the video watch-page base URL (used in tests).
func WithWatchBaseURL(u string) Option {
	return func(p *Pipeline) { p.watchBaseURL = strings.TrimRight(u, "/") }
}

// NewPipeline creates an extraction pipeline.
func NewPipeline(transcripts transcript.Client, search serper.Client, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		transcripts:  transcripts,
		search:       search,
		logger:       logger,
		watchBaseURL: "https://www.youtube.com",
		userAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Video extracts metadata for a YouTube URL. The only error path is an
// unrecognizable URL; source failures degrade to placeholders.
func (p *Pipeline) Video(ctx context.Context, videoURL string) (*domain.ExtractedContent, error) {
	videoID := ExtractVideoID(videoURL)
	if videoID == "" {
		return nil, domain.ErrInvalidVideoURL
	}

	content := &domain.ExtractedContent{
		Title:           domain.PlaceholderVideoTitle,
		Description:     domain.PlaceholderVideoDescription,
		ChannelOrAuthor: domain.PlaceholderChannel,
	}

	// Transcript and page scrape hit different endpoints; run them together
	// and join before generation starts.
	var (
		wg         sync.WaitGroup
		transcript string
		scraped    partial
	)
	if p.transcripts != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text, err := p.transcripts.Fetch(ctx, videoID)
			if err != nil {
				p.logger.Warn("transcript fetch failed", "video_id", videoID, "error", err)
				return
			}
			transcript = text
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		html, err := p.fetchPage(ctx, p.watchBaseURL+"/watch?v="+videoID)
		if err != nil {
			p.logger.Warn("video page fetch failed", "video_id", videoID, "error", err)
			return
		}
		scraped = applyStrategies(videoStrategies, html)
	}()
	wg.Wait()

	content.Transcript = transcript
	if scraped.Title != "" {
		content.Title = scraped.Title
	}
	if scraped.Description != "" {
		content.Description = scraped.Description
	}
	if scraped.Author != "" {
		content.ChannelOrAuthor = scraped.Author
	}

	p.searchFill(ctx, content, "site:youtube.com "+videoID,
		domain.PlaceholderVideoTitle, domain.PlaceholderVideoDescription)
	return content, nil
}

// Article extracts metadata for an article URL.
func (p *Pipeline) Article(ctx context.Context, articleURL string) (*domain.ExtractedContent, error) {
	u, err := url.Parse(articleURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, domain.ErrInvalidArticleURL
	}

	content := &domain.ExtractedContent{
		Title:           domain.PlaceholderArticleTitle,
		Description:     domain.PlaceholderArticleDescription,
		ChannelOrAuthor: domain.PlaceholderAuthor,
	}

	html, err := p.fetchPage(ctx, articleURL)
	if err != nil {
		p.logger.Warn("article fetch failed", "url", articleURL, "error", err)
	} else {
		scraped := applyStrategies(articleStrategies, html)
		if scraped.Title != "" {
			content.Title = scraped.Title
		}
		if scraped.Description != "" {
			content.Description = scraped.Description
		}
		if scraped.Author != "" {
			content.ChannelOrAuthor = scraped.Author
		}
	}

	p.searchFill(ctx, content, articleURL,
		domain.PlaceholderArticleTitle, domain.PlaceholderArticleDescription)
	return content, nil
}

// searchFill is the last-resort fill: when title or description is still at
// its placeholder and a search client is configured, take the top result.
func (p *Pipeline) searchFill(ctx context.Context, content *domain.ExtractedContent, query, titlePlaceholder, descPlaceholder string) {
	if p.search == nil {
		return
	}
	if content.Title != titlePlaceholder && content.Description != descPlaceholder {
		return
	}

	results, err := p.search.Search(ctx, query, 1)
	if err != nil {
		p.logger.Warn("search fallback failed", "query", query, "error", err)
		return
	}
	if len(results) == 0 {
		return
	}
	if content.Title == titlePlaceholder && results[0].Title != "" {
		content.Title = results[0].Title
	}
	if content.Description == descPlaceholder && results[0].Snippet != "" {
		content.Description = results[0].Snippet
	}
}

func (p *Pipeline) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}
