package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/draftwell/draftwell/internal/domain"
	"github.com/draftwell/draftwell/internal/extract"
	"github.com/draftwell/draftwell/pkg/openai"
)

const summarizePersona = `You're a skilled content analyst who reads source material and creates natural, human-like summaries and social media content. Write as if you're a knowledgeable person sharing insights, not an AI. Use conversational tone, personal opinions, and authentic language. Avoid corporate speak or obvious AI patterns.

Return JSON with this exact structure:
{
  "title": "Content title",
  "summary": "Natural, conversational summary that sounds like a real person explaining the content",
  "linkedinPost": "Professional but human LinkedIn post that sounds genuine and engaging",
  "twitterThread": ["Tweet 1", "Tweet 2", "Tweet 3", "Tweet 4", "Tweet 5"]
}`

// maxTranscriptChars bounds how much transcript goes into the prompt.
const maxTranscriptChars = 12000

// SummarizeService turns an external URL into a summary plus social content.
type SummarizeService struct {
	ai       openai.Client
	pipeline *extract.Pipeline
	logger   *slog.Logger
	model    string
}

// NewSummarizeService creates a summarize service. model should be the larger
// generation model; empty falls back to the client default.
func NewSummarizeService(ai openai.Client, pipeline *extract.Pipeline, model string, logger *slog.Logger) *SummarizeService {
	return &SummarizeService{
		ai:       ai,
		pipeline: pipeline,
		logger:   logger,
		model:    model,
	}
}

// Article summarizes an article URL.
func (s *SummarizeService) Article(ctx context.Context, url string) (*domain.Summary, error) {
	content, err := s.pipeline.Article(ctx, url)
	if err != nil {
		return nil, err
	}

	user := fmt.Sprintf(`Read and analyze this article based on the following information:

Article Title: %s
Author/Publication: %s
Description: %s
URL: %s

Create a natural summary and social media content that sounds like it's written by a real person who actually read and understood the article. Base your content on the actual title and description provided above.`,
		content.Title, content.ChannelOrAuthor, content.Description, url)

	return s.generate(ctx, url, user, "")
}

// Video summarizes a YouTube URL. The response title is overridden by the
// scraped title when the pipeline resolved one.
func (s *SummarizeService) Video(ctx context.Context, url string) (*domain.Summary, error) {
	content, err := s.pipeline.Video(ctx, url)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Analyze this YouTube video based on the following information:

Video Title: %s
Channel: %s
Description: %s
URL: %s
`, content.Title, content.ChannelOrAuthor, content.Description, url)

	if content.Transcript != "" {
		transcript := content.Transcript
		if len(transcript) > maxTranscriptChars {
			transcript = transcript[:maxTranscriptChars]
		}
		fmt.Fprintf(&b, "\nTranscript:\n%s\n", transcript)
	}
	b.WriteString("\nCreate a detailed summary and social media content that accurately reflects what this specific video is about. Base your content on the actual video information provided above.")

	titleOverride := ""
	if content.Title != domain.PlaceholderVideoTitle {
		titleOverride = content.Title
	}
	return s.generate(ctx, url, b.String(), titleOverride)
}

func (s *SummarizeService) generate(ctx context.Context, url, user, titleOverride string) (*domain.Summary, error) {
	content, err := s.ai.ChatJSON(ctx, openai.ChatRequest{
		Model:       s.model,
		System:      summarizePersona,
		User:        user,
		Temperature: 0.7,
		MaxTokens:   4000,
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Title         string   `json:"title"`
		Summary       string   `json:"summary"`
		LinkedInPost  string   `json:"linkedinPost"`
		TwitterThread []string `json:"twitterThread"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parse summary response: %w", err)
	}
	if parsed.Title == "" || parsed.Summary == "" || parsed.LinkedInPost == "" || len(parsed.TwitterThread) == 0 {
		return nil, fmt.Errorf("summary response missing required fields")
	}

	summary := &domain.Summary{
		Title:         parsed.Title,
		Summary:       parsed.Summary,
		LinkedInPost:  parsed.LinkedInPost,
		TwitterThread: parsed.TwitterThread,
		OriginalURL:   url,
	}
	if titleOverride != "" {
		summary.Title = titleOverride
	}
	return summary, nil
}
