// Package serper calls the serper.dev Google search API.
package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/draftwell/draftwell/internal/config"
	"github.com/draftwell/draftwell/internal/domain"
)

// Result is one organic search or news entry.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// Client is the search surface used by the extraction pipeline and trending.
type Client interface {
	// Search runs a web search and returns up to num organic results.
	Search(ctx context.Context, query string, num int) ([]Result, error)
	// News runs a news search scoped to a two-letter country code.
	News(ctx context.Context, query, country string, num int) ([]Result, error)
}

// HTTPClient implements Client against the serper.dev API.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new serper.dev client.
func NewClient(cfg config.SerperConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type apiRequest struct {
	Q   string `json:"q"`
	GL  string `json:"gl,omitempty"`
	HL  string `json:"hl,omitempty"`
	Num int    `json:"num,omitempty"`
}

type apiResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic"`
	News []struct {
		Title       string `json:"title"`
		Snippet     string `json:"snippet"`
		Description string `json:"description"`
		Link        string `json:"link"`
	} `json:"news"`
}

func (c *HTTPClient) Search(ctx context.Context, query string, num int) ([]Result, error) {
	resp, err := c.post(ctx, "/search", apiRequest{Q: query, GL: "us", HL: "en", Num: num})
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(resp.Organic))
	for _, r := range resp.Organic {
		results = append(results, Result{Title: r.Title, Snippet: r.Snippet, Link: r.Link})
	}
	if num > 0 && len(results) > num {
		results = results[:num]
	}
	return results, nil
}

func (c *HTTPClient) News(ctx context.Context, query, country string, num int) ([]Result, error) {
	resp, err := c.post(ctx, "/news", apiRequest{Q: query, GL: country, HL: "en", Num: num})
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(resp.News))
	for _, r := range resp.News {
		snippet := r.Snippet
		if snippet == "" {
			snippet = r.Description
		}
		results = append(results, Result{Title: r.Title, Snippet: snippet, Link: r.Link})
	}
	if num > 0 && len(results) > num {
		results = results[:num]
	}
	return results, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload apiRequest) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Provider: "serper", Op: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{
			Provider: "serper",
			Op:       path,
			Status:   resp.StatusCode,
			Body:     string(respBody),
		}
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &parsed, nil
}
