// Package transcript fetches YouTube caption tracks for a video id.
package transcript

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Client fetches transcripts. Implementations must be safe for concurrent use.
type Client interface {
	// Fetch returns the full transcript text for a video id.
	Fetch(ctx context.Context, videoID string) (string, error)
}

// HTTPClient fetches transcripts by locating a caption track on the public
// watch page and downloading its timedtext document.
type HTTPClient struct {
	watchBaseURL string
	userAgent    string
	httpClient   *http.Client
}

// Option configures the HTTPClient.
type Option func(*HTTPClient)

// WithWatchBaseURL overrides the watch-page base URL (used in tests).
func WithWatchBaseURL(u string) Option {
	return func(c *HTTPClient) { c.watchBaseURL = strings.TrimRight(u, "/") }
}

// NewClient creates a transcript client.
func NewClient(opts ...Option) *HTTPClient {
	c := &HTTPClient{
		watchBaseURL: "https://www.youtube.com",
		userAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	captionTrackRe = regexp.MustCompile(`"captionTracks":\[\{"baseUrl":"([^"]+)"`)
	timedTextRe    = regexp.MustCompile(`(?s)<text[^>]*>(.*?)</text>`)
)

// Fetch downloads and flattens the first caption track of the video.
func (c *HTTPClient) Fetch(ctx context.Context, videoID string) (string, error) {
	page, err := c.get(ctx, c.watchBaseURL+"/watch?v="+videoID)
	if err != nil {
		return "", fmt.Errorf("fetch watch page: %w", err)
	}

	m := captionTrackRe.FindSubmatch(page)
	if m == nil {
		return "", fmt.Errorf("no caption tracks for video %s", videoID)
	}
	// The URL is embedded in a JSON string literal on the watch page, so
	// ampersands arrive as \u0026 and slashes as \/.
	trackURL := strings.ReplaceAll(string(m[1]), `\u0026`, "&")
	trackURL = strings.ReplaceAll(trackURL, `\/`, "/")

	doc, err := c.get(ctx, trackURL)
	if err != nil {
		return "", fmt.Errorf("fetch caption track: %w", err)
	}

	matches := timedTextRe.FindAllSubmatch(doc, -1)
	if len(matches) == 0 {
		return "", fmt.Errorf("empty caption track for video %s", videoID)
	}

	var sb strings.Builder
	for i, seg := range matches {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(html.UnescapeString(string(seg[1])))
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("empty transcript for video %s", videoID)
	}
	return text, nil
}

func (c *HTTPClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
