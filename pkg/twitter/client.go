// Package twitter talks to the X v2 API on behalf of a connected account.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/draftwell/draftwell/internal/config"
	"github.com/draftwell/draftwell/internal/domain"
)

// MaxPostLength is the hard limit for a single post.
const MaxPostLength = 280

// Post is a created post, normalized for API responses.
type Post struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Client calls the X v2 API with a caller-supplied bearer token. One attempt
// per call, no retry, no refresh.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new X API client.
func NewClient(cfg config.TwitterConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// PostTweet creates a post. Text longer than MaxPostLength is rejected locally
// before any network request.
func (c *Client) PostTweet(ctx context.Context, accessToken, text string) (*Post, error) {
	if len([]rune(text)) > MaxPostLength {
		return nil, domain.ErrPostTooLong
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/tweets", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Provider: "twitter", Op: "post tweet", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.UpstreamError{
			Provider: "twitter",
			Op:       "post tweet",
			Status:   resp.StatusCode,
			Detail:   errorDetail(respBody),
			Body:     string(respBody),
		}
	}

	var parsed struct {
		Data struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Data.ID == "" {
		return nil, fmt.Errorf("response missing post id")
	}

	return &Post{
		ID:   parsed.Data.ID,
		Text: parsed.Data.Text,
		URL:  "https://twitter.com/i/status/" + parsed.Data.ID,
	}, nil
}

// GetUser fetches the profile of the token's owner.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*domain.ProviderUser, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/users/me?user.fields=profile_image_url", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Provider: "twitter", Op: "users/me", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.UpstreamError{
			Provider: "twitter",
			Op:       "users/me",
			Status:   resp.StatusCode,
			Detail:   errorDetail(respBody),
			Body:     string(respBody),
		}
	}

	var parsed struct {
		Data struct {
			ID              string `json:"id"`
			Username        string `json:"username"`
			Name            string `json:"name"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Data.ID == "" {
		return nil, fmt.Errorf("response missing user id")
	}

	return &domain.ProviderUser{
		ID:          parsed.Data.ID,
		Username:    parsed.Data.Username,
		DisplayName: parsed.Data.Name,
		AvatarURL:   parsed.Data.ProfileImageURL,
	}, nil
}

// errorDetail pulls the short human-readable message out of an X error body.
func errorDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
		Title  string `json:"title"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if parsed.Detail != "" {
		return parsed.Detail
	}
	if len(parsed.Errors) > 0 && parsed.Errors[0].Message != "" {
		return parsed.Errors[0].Message
	}
	return parsed.Title
}
