// Package openai interfaces with the OpenAI chat-completions and image APIs.
package openai

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

// Client is the generation provider surface used by the orchestrator.
type Client interface {
	// ChatJSON runs a chat completion in strict-JSON mode and returns the raw
	// content string. Parsing and fallback discipline belong to the caller.
	ChatJSON(ctx context.Context, req ChatRequest) (string, error)
	// GenerateImage creates one image and returns it base64-encoded.
	GenerateImage(ctx context.Context, req ImageRequest) (string, error)
}

// ChatRequest describes one strict-JSON chat completion.
type ChatRequest struct {
	Model       string // defaults to the configured model
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// ImageRequest describes one image generation.
type ImageRequest struct {
	Prompt string
	Size   string // defaults to 1024x1024
}

// HTTPClient implements Client against the OpenAI HTTP API.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	model      string
	imageModel string
	httpClient *http.Client
}

// NewClient creates a new OpenAI client.
func NewClient(cfg config.OpenAIConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		imageModel: cfg.ImageModel,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatAPIRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatAPIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// ChatJSON runs a chat completion with response_format json_object.
func (c *HTTPClient) ChatJSON(ctx context.Context, req ChatRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	apiReq := chatAPIRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature:    req.Temperature,
		MaxTokens:      req.MaxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	respBody, err := c.post(ctx, "/chat/completions", apiReq, "chat completion")
	if err != nil {
		return "", err
	}

	var chatResp chatAPIResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if chatResp.Error != nil {
		return "", &domain.UpstreamError{
			Provider: "openai",
			Op:       "chat completion",
			Detail:   chatResp.Error.Message,
			Body:     string(respBody),
		}
	}
	if len(chatResp.Choices) == 0 {
		return "", &domain.UpstreamError{Provider: "openai", Op: "chat completion", Detail: "no choices returned"}
	}

	return chatResp.Choices[0].Message.Content, nil
}

type imageAPIRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	N              int    `json:"n"`
	ResponseFormat string `json:"response_format"`
}

type imageAPIResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateImage creates one HD image and returns it base64-encoded.
func (c *HTTPClient) GenerateImage(ctx context.Context, req ImageRequest) (string, error) {
	size := req.Size
	if size == "" {
		size = "1024x1024"
	}

	apiReq := imageAPIRequest{
		Model:          c.imageModel,
		Prompt:         req.Prompt,
		Size:           size,
		Quality:        "hd",
		N:              1,
		ResponseFormat: "b64_json",
	}

	respBody, err := c.post(ctx, "/images/generations", apiReq, "image generation")
	if err != nil {
		return "", err
	}

	var imgResp imageAPIResponse
	if err := json.Unmarshal(respBody, &imgResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if imgResp.Error != nil {
		return "", &domain.UpstreamError{
			Provider: "openai",
			Op:       "image generation",
			Detail:   imgResp.Error.Message,
			Body:     string(respBody),
		}
	}
	if len(imgResp.Data) == 0 || imgResp.Data[0].B64JSON == "" {
		return "", &domain.UpstreamError{Provider: "openai", Op: "image generation", Detail: "no image returned"}
	}

	return imgResp.Data[0].B64JSON, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any, op string) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &domain.UpstreamError{Provider: "openai", Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{
			Provider: "openai",
			Op:       op,
			Status:   resp.StatusCode,
			Body:     string(respBody),
		}
	}
	return respBody, nil
}
