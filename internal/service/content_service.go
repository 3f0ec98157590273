package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/draftwell/draftwell/internal/domain"
	"github.com/draftwell/draftwell/pkg/openai"
	"github.com/draftwell/draftwell/pkg/serper"
)

const generatePersona = `You're a skilled social media writer who creates authentic, engaging content. Write like a real person sharing genuine insights, not an AI. Use natural language, personal opinions, and conversational tone. Avoid corporate speak, excessive emojis, or obvious AI patterns. Write as if you're genuinely excited about the topic and sharing your thoughts with friends or colleagues. Return JSON with "tweets" and "linkedinPosts" arrays.`

const threadsPersona = `You write engaging Twitter threads that sound like they come from a knowledgeable person sharing insights. Write naturally, use real examples, and make it conversational. Each thread should be 4-6 tweets that flow together. Return JSON {"threads": string[][]}.`

const instagramPersona = `Write Instagram captions that sound like they come from a real person sharing their thoughts. Use natural language, appropriate emojis, and relevant hashtags. Make it conversational and authentic. Return JSON {"instagramPosts": string[]}.`

// ContentService is the generation orchestrator for topic-based content.
type ContentService struct {
	ai     openai.Client
	search serper.Client // nil when no search key configured
	logger *slog.Logger

	// variants picks the per-request variant count; swapped out in tests.
	variants func() int
}

// NewContentService creates a content service. search may be nil.
func NewContentService(ai openai.Client, search serper.Client, logger *slog.Logger) *ContentService {
	return &ContentService{
		ai:     ai,
		search: search,
		logger: logger,
		variants: func() int {
			return 3 + rand.Intn(2) // 3 or 4
		},
	}
}

// Generate builds the content set for a topic. Primary tweets/linkedin arrays
// are guaranteed non-empty: provider or parse failures degrade to templated
// fallback content. Optional modes are best-effort and omitted on failure.
// An empty mood defaults to professional.
func (s *ContentService) Generate(ctx context.Context, topic string, mode domain.ContentMode, mood domain.ContentMood) (*domain.ContentSet, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, domain.ErrEmptyTopic
	}
	if mood == "" {
		mood = domain.DefaultMood
	}
	if !domain.ValidMood(mood) {
		return nil, domain.ErrUnsupportedMood
	}

	searchResults := s.searchContext(ctx, topic)
	n := s.variants()

	set := &domain.ContentSet{
		Topic:         topic,
		SearchResults: searchResults,
	}
	set.Tweets, set.LinkedInPosts = s.generatePrimary(ctx, topic, searchResults, n, mood)

	switch mode {
	case domain.ModeTwitterThreads:
		set.Threads = s.generateThreads(ctx, topic, searchResults)
	case domain.ModeInstagram:
		set.InstagramPosts = s.generateInstagram(ctx, topic, searchResults)
	}

	return set, nil
}

func (s *ContentService) generatePrimary(ctx context.Context, topic string, searchResults []string, n int, mood domain.ContentMood) (tweets, posts []string) {
	user := fmt.Sprintf("Write about: %s\n\nContext: %s\n\nCreate %d different Twitter posts and %d different LinkedIn posts in a %s tone. Make each one sound like it's written by a real person with genuine interest in the topic.",
		topic, strings.Join(head(searchResults, 5), " | "), n, n, mood)

	content, err := s.ai.ChatJSON(ctx, openai.ChatRequest{
		System:      generatePersona,
		User:        user,
		Temperature: 0.8,
	})
	if err != nil {
		s.logger.Warn("content generation failed, using fallback", "topic", topic, "error", err)
		return fallbackTweets(topic, n), fallbackLinkedInPosts(topic, n)
	}

	var parsed struct {
		Tweets        []string `json:"tweets"`
		LinkedInPosts []string `json:"linkedinPosts"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		s.logger.Warn("content response unparseable, using fallback", "topic", topic, "error", err)
		return fallbackTweets(topic, n), fallbackLinkedInPosts(topic, n)
	}

	tweets = head(parsed.Tweets, n)
	posts = head(parsed.LinkedInPosts, n)
	if len(tweets) == 0 {
		tweets = fallbackTweets(topic, n)
	}
	if len(posts) == 0 {
		posts = fallbackLinkedInPosts(topic, n)
	}
	return tweets, posts
}

// generateThreads is an optional mode: any failure is logged and the mode is
// simply omitted from the response.
func (s *ContentService) generateThreads(ctx context.Context, topic string, searchResults []string) [][]string {
	examples := "Use your knowledge of recent trends"
	if s.search != nil {
		results, err := s.search.Search(ctx, topic+" examples news 2024", 5)
		if err != nil {
			s.logger.Warn("thread example search failed", "topic", topic, "error", err)
		} else if len(results) > 0 {
			lines := make([]string, 0, 3)
			for _, r := range results[:min(3, len(results))] {
				lines = append(lines, r.Title+": "+r.Snippet)
			}
			examples = strings.Join(lines, "\n")
		}
	}

	user := fmt.Sprintf("Write 2 different Twitter threads about: %s.\nContext: %s\nExamples: %s\nMake each thread sound like a real expert sharing genuine insights, not AI-generated content.",
		topic, strings.Join(head(searchResults, 5), " | "), examples)

	content, err := s.ai.ChatJSON(ctx, openai.ChatRequest{
		System:      threadsPersona,
		User:        user,
		Temperature: 0.8,
	})
	if err != nil {
		s.logger.Warn("thread generation failed", "topic", topic, "error", err)
		return nil
	}

	var parsed struct {
		Threads [][]string `json:"threads"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		s.logger.Warn("thread response unparseable", "topic", topic, "error", err)
		return nil
	}
	return parsed.Threads
}

// generateInstagram is an optional mode with the same omit-on-failure rule.
func (s *ContentService) generateInstagram(ctx context.Context, topic string, searchResults []string) []string {
	user := fmt.Sprintf("Write 3 different Instagram captions about: %s.\nContext: %s\nMake each caption sound like a genuine person sharing their perspective, not AI-generated content.",
		topic, strings.Join(head(searchResults, 5), " | "))

	content, err := s.ai.ChatJSON(ctx, openai.ChatRequest{
		System:      instagramPersona,
		User:        user,
		Temperature: 0.8,
	})
	if err != nil {
		s.logger.Warn("instagram generation failed", "topic", topic, "error", err)
		return nil
	}

	var parsed struct {
		InstagramPosts []string `json:"instagramPosts"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		s.logger.Warn("instagram response unparseable", "topic", topic, "error", err)
		return nil
	}
	return parsed.InstagramPosts
}

// searchContext gathers up to five context snippets for the prompt, falling
// back to deterministic snippets when search is unconfigured or failing.
func (s *ContentService) searchContext(ctx context.Context, topic string) []string {
	if s.search == nil {
		return fallbackSearchResults(topic)
	}
	results, err := s.search.Search(ctx, topic, 5)
	if err != nil {
		s.logger.Warn("context search failed", "topic", topic, "error", err)
		return fallbackSearchResults(topic)
	}
	if len(results) == 0 {
		return fallbackSearchResults(topic)
	}

	snippets := make([]string, 0, len(results))
	for _, r := range results {
		snippets = append(snippets, r.Title+": "+r.Snippet)
	}
	return snippets
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
