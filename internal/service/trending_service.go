package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/draftwell/draftwell/internal/domain"
	"github.com/draftwell/draftwell/pkg/openai"
	"github.com/draftwell/draftwell/pkg/perplexity"
	"github.com/draftwell/draftwell/pkg/serper"
)

// trendingCount is the number of topics every response carries.
const trendingCount = 10

// newsQueries are the per-category search queries for the news provider.
var newsQueries = map[string]string{
	"Business":      "trending business keywords hashtags startups investments",
	"Tech":          "trending tech keywords hashtags AI software apps startups",
	"Sports":        "trending sports keywords hashtags athletes teams games",
	"Entertainment": "trending entertainment keywords hashtags celebrities shows",
	"Movies":        "trending movie keywords hashtags actors directors franchises",
	"Politics":      "trending political keywords hashtags politicians elections",
	"Science":       "trending science keywords hashtags research discoveries",
	"Health":        "trending health keywords hashtags medical wellness",
	"Products":      "trending tech products keywords hashtags gadgets devices",
}

// researchQueries are the per-category queries for the online research model.
var researchQueries = map[string]string{
	"Business":      "trending business news startups investments market trends",
	"Tech":          "trending tech news AI software apps startups technology trends",
	"Sports":        "trending sports news athletes teams games sports events",
	"Entertainment": "trending entertainment news celebrities shows music events",
	"Movies":        "trending movie news films actors directors box office",
	"Politics":      "trending political news politicians elections policies",
	"Science":       "trending science news research discoveries scientific breakthroughs",
	"Health":        "trending health news medical wellness healthcare trends",
	"Products":      "trending tech products gadgets devices new releases",
}

// TrendingService resolves trending topics through a provider chain:
// news search, then online research model, then text generation, then
// deterministic fallback. Every response has exactly trendingCount entries.
type TrendingService struct {
	search   serper.Client     // nil when unkeyed
	research perplexity.Client // nil when unkeyed
	ai       openai.Client     // nil disables the generation tier
	logger   *slog.Logger
}

// NewTrendingService creates a trending service. Any provider may be nil.
func NewTrendingService(search serper.Client, research perplexity.Client, ai openai.Client, logger *slog.Logger) *TrendingService {
	return &TrendingService{
		search:   search,
		research: research,
		ai:       ai,
		logger:   logger,
	}
}

// Topics returns exactly trendingCount topics for a supported category.
func (s *TrendingService) Topics(ctx context.Context, category, country string) ([]domain.TrendingTopic, error) {
	category = strings.TrimSpace(category)
	if !domain.ValidCategory(category) {
		return nil, domain.ErrUnsupportedCategory
	}
	country = normalizeCountry(country)

	if topics := s.fromNews(ctx, category, country); len(topics) > 0 {
		return pad(topics, category), nil
	}
	if topics := s.fromResearch(ctx, category, country); len(topics) > 0 {
		return pad(topics, category), nil
	}
	if topics := s.fromGeneration(ctx, category); len(topics) > 0 {
		return pad(topics, category), nil
	}
	return pad(nil, category), nil
}

func (s *TrendingService) fromNews(ctx context.Context, category, country string) []domain.TrendingTopic {
	if s.search == nil {
		return nil
	}
	results, err := s.search.News(ctx, newsQueries[category], country, trendingCount)
	if err != nil {
		s.logger.Warn("news trending failed", "category", category, "error", err)
		return nil
	}

	lower := strings.ToLower(category)
	topics := make([]domain.TrendingTopic, 0, len(results))
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = fmt.Sprintf("Trending %s topic %d", category, i+1)
		}
		summary := r.Snippet
		if summary == "" {
			summary = fmt.Sprintf("This %s topic is currently trending and generating significant interest among users and media outlets.", lower)
		}
		summary += fmt.Sprintf(" This topic is gaining momentum due to recent developments, user engagement, and media coverage. It represents current trends and discussions in the %s space.", lower)
		if r.Link != "" {
			summary += "\n\nRead more: " + r.Link
		}
		topics = append(topics, domain.TrendingTopic{Title: title, Summary: summary})
	}
	if len(topics) > trendingCount {
		topics = topics[:trendingCount]
	}
	return topics
}

func (s *TrendingService) fromResearch(ctx context.Context, category, country string) []domain.TrendingTopic {
	if s.research == nil {
		return nil
	}

	system := "You are a trending topics analyst. Find the most current and relevant trending topics, keywords, and hashtags for the given category and country. Return exactly 10 trending topics with titles and summaries. Focus on what's actually trending right now with real data and current events."
	user := fmt.Sprintf(`Find 10 current trending topics, keywords, and hashtags for %s in %s. Include specific trending terms, popular search queries, and current events. For each topic, provide:
1. A concise title (under 90 characters)
2. A brief summary (1-2 sentences) explaining why it's trending and what makes it relevant now

Return the response as a JSON array with this exact structure:
[{"title": "Topic Title", "summary": "Brief explanation of why this is trending now"}]

Query: %s in %s`,
		category, strings.ToUpper(country), researchQueries[category], country)

	content, err := s.research.Chat(ctx, system, user)
	if err != nil {
		s.logger.Warn("research trending failed", "category", category, "error", err)
		return nil
	}

	topics := parseTopics(content)
	if len(topics) == 0 {
		s.logger.Warn("research trending response unparseable", "category", category)
	}
	return topics
}

func (s *TrendingService) fromGeneration(ctx context.Context, category string) []domain.TrendingTopic {
	if s.ai == nil {
		return nil
	}

	system := `You're a knowledgeable analyst who identifies current trending topics, keywords, and hashtags. Write trending topics that people are actually searching for and talking about. Include relevant keywords, hashtags, and trending terms. Each topic should be a specific, actionable trending topic that users can create content about. Return JSON {"topics": [{"title": string, "summary": string}]} with exactly 10 trending topics, each having a title and summary.`
	user := fmt.Sprintf("Find 10 current trending topics, keywords, and hashtags in %s. Include popular search terms, trending hashtags, and topics people are actively discussing. For each topic, provide a title (under 90 characters) and a brief summary (1-2 sentences explaining why it's trending). Make them sound like real trending topics with relevant keywords. Return exactly 10 topics.", category)

	content, err := s.ai.ChatJSON(ctx, openai.ChatRequest{
		System:      system,
		User:        user,
		Temperature: 0.7,
	})
	if err != nil {
		s.logger.Warn("generated trending failed", "category", category, "error", err)
		return nil
	}

	topics := parseTopics(content)
	if len(topics) == 0 {
		s.logger.Warn("generated trending response unparseable", "category", category)
	}
	return topics
}

// parseTopics accepts either a bare JSON array or a {"topics": [...]} object,
// tolerating markdown code fences around the payload.
func parseTopics(content string) []domain.TrendingTopic {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var list []domain.TrendingTopic
	if err := json.Unmarshal([]byte(content), &list); err == nil {
		return valid(list)
	}

	var wrapped struct {
		Topics []domain.TrendingTopic `json:"topics"`
	}
	if err := json.Unmarshal([]byte(content), &wrapped); err == nil {
		return valid(wrapped.Topics)
	}
	return nil
}

func valid(topics []domain.TrendingTopic) []domain.TrendingTopic {
	out := topics[:0]
	for _, t := range topics {
		if t.Title != "" && t.Summary != "" {
			out = append(out, t)
		}
	}
	if len(out) > trendingCount {
		out = out[:trendingCount]
	}
	return out
}

// pad fills the list up to exactly trendingCount with deterministic fallback
// topics.
func pad(topics []domain.TrendingTopic, category string) []domain.TrendingTopic {
	for i := len(topics); i < trendingCount; i++ {
		topics = append(topics, fallbackTopic(category, i+1))
	}
	return topics[:trendingCount]
}

func normalizeCountry(country string) string {
	country = strings.ToLower(strings.TrimSpace(country))
	if len(country) != 2 {
		return "us"
	}
	return country
}
