// Package perplexity calls the Perplexity online-model chat API.
package perplexity

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

// Client is the online research surface used by the trending service.
type Client interface {
	// Chat runs one completion against the online model and returns the raw content.
	Chat(ctx context.Context, system, user string) (string, error)
}

// HTTPClient implements Client against the Perplexity API.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a new Perplexity client.
func NewClient(cfg config.PerplexityConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatAPIRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	MaxTokens           int           `json:"max_tokens,omitempty"`
	Temperature         float64       `json:"temperature,omitempty"`
	TopP                float64       `json:"top_p,omitempty"`
	ReturnCitations     bool          `json:"return_citations"`
	SearchRecencyFilter string        `json:"search_recency_filter,omitempty"`
}

type chatAPIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Chat runs one completion with month-recency search.
func (c *HTTPClient) Chat(ctx context.Context, system, user string) (string, error) {
	apiReq := chatAPIRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:           2000,
		Temperature:         0.7,
		TopP:                0.9,
		SearchRecencyFilter: "month",
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.UpstreamError{Provider: "perplexity", Op: "chat completion", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &domain.UpstreamError{
			Provider: "perplexity",
			Op:       "chat completion",
			Status:   resp.StatusCode,
			Body:     string(respBody),
		}
	}

	var parsed chatAPIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", &domain.UpstreamError{Provider: "perplexity", Op: "chat completion", Detail: "no choices returned"}
	}
	return parsed.Choices[0].Message.Content, nil
}
