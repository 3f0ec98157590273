package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/draftwell/draftwell/internal/domain"
	"github.com/draftwell/draftwell/pkg/openai"
	"github.com/draftwell/draftwell/pkg/serper"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAI returns canned responses keyed by the system prompt that selected them.
type fakeAI struct {
	responses map[string]string // system prompt -> content
	err       error
	imageB64  string
	imageErr  error
	requests  []openai.ChatRequest
}

func (f *fakeAI) ChatJSON(ctx context.Context, req openai.ChatRequest) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	if content, ok := f.responses[req.System]; ok {
		return content, nil
	}
	return "{}", nil
}

func (f *fakeAI) GenerateImage(ctx context.Context, req openai.ImageRequest) (string, error) {
	if f.imageErr != nil {
		return "", f.imageErr
	}
	return f.imageB64, nil
}

type fakeSearch struct {
	results []serper.Result
	err     error
	queries []string
}

func (f *fakeSearch) Search(ctx context.Context, query string, num int) ([]serper.Result, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func (f *fakeSearch) News(ctx context.Context, query, country string, num int) ([]serper.Result, error) {
	return f.results, f.err
}

func fixedVariants(svc *ContentService, n int) {
	svc.variants = func() int { return n }
}

func TestGenerate_EmptyTopic(t *testing.T) {
	svc := NewContentService(&fakeAI{}, nil, testLogger())

	for _, topic := range []string{"", "   ", "\t\n"} {
		if _, err := svc.Generate(context.Background(), topic, domain.ModeDefault, ""); !errors.Is(err, domain.ErrEmptyTopic) {
			t.Errorf("Generate(%q) error = %v, want ErrEmptyTopic", topic, err)
		}
	}
}

func TestGenerate_UnsupportedMood(t *testing.T) {
	svc := NewContentService(&fakeAI{}, nil, testLogger())

	for _, mood := range []domain.ContentMood{"sarcastic", "Professional", "FUNNY"} {
		if _, err := svc.Generate(context.Background(), "ai", domain.ModeDefault, mood); !errors.Is(err, domain.ErrUnsupportedMood) {
			t.Errorf("Generate(mood=%q) error = %v, want ErrUnsupportedMood", mood, err)
		}
	}
}

func TestGenerate_MoodShapesPrompt(t *testing.T) {
	ai := &fakeAI{responses: map[string]string{
		generatePersona: `{"tweets":["t1","t2","t3"],"linkedinPosts":["p1","p2","p3"]}`,
	}}
	svc := NewContentService(ai, nil, testLogger())
	fixedVariants(svc, 3)

	if _, err := svc.Generate(context.Background(), "ai", domain.ModeDefault, "funny"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(ai.requests) != 1 || !strings.Contains(ai.requests[0].User, "funny tone") {
		t.Errorf("prompt should carry the requested mood, got %q", ai.requests[0].User)
	}

	ai.requests = nil
	if _, err := svc.Generate(context.Background(), "ai", domain.ModeDefault, ""); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(ai.requests[0].User, "professional tone") {
		t.Errorf("empty mood should default to professional, got %q", ai.requests[0].User)
	}
}

func TestGenerate_Success(t *testing.T) {
	ai := &fakeAI{responses: map[string]string{
		generatePersona: `{"tweets":["t1","t2","t3"],"linkedinPosts":["p1","p2","p3"]}`,
	}}
	svc := NewContentService(ai, nil, testLogger())
	fixedVariants(svc, 3)

	set, err := svc.Generate(context.Background(), "electric vehicles", domain.ModeDefault, "")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if set.Topic != "electric vehicles" {
		t.Errorf("topic = %q", set.Topic)
	}
	if len(set.Tweets) != 3 {
		t.Errorf("len(tweets) = %d, want 3", len(set.Tweets))
	}
	if len(set.LinkedInPosts) != 3 {
		t.Errorf("len(linkedin) = %d, want 3", len(set.LinkedInPosts))
	}
	if set.Threads != nil {
		t.Errorf("threads = %v, want nil in default mode", set.Threads)
	}
	if set.InstagramPosts != nil {
		t.Errorf("instagram = %v, want nil in default mode", set.InstagramPosts)
	}
	if len(set.SearchResults) == 0 {
		t.Error("search results should fall back to deterministic snippets")
	}
}

func TestGenerate_VariantCountWithinRange(t *testing.T) {
	ai := &fakeAI{responses: map[string]string{
		generatePersona: `{"tweets":["1","2","3","4","5","6"],"linkedinPosts":["1","2","3","4","5","6"]}`,
	}}
	svc := NewContentService(ai, nil, testLogger())

	for i := 0; i < 20; i++ {
		set, err := svc.Generate(context.Background(), "electric vehicles", domain.ModeDefault, "")
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if n := len(set.Tweets); n < 3 || n > 4 {
			t.Fatalf("len(tweets) = %d, want 3 or 4", n)
		}
		if n := len(set.LinkedInPosts); n < 3 || n > 4 {
			t.Fatalf("len(linkedin) = %d, want 3 or 4", n)
		}
	}
}

func TestGenerate_ProviderErrorFallsBack(t *testing.T) {
	ai := &fakeAI{err: errors.New("rate limited")}
	svc := NewContentService(ai, nil, testLogger())
	fixedVariants(svc, 3)

	set, err := svc.Generate(context.Background(), "quantum computing", domain.ModeDefault, "")
	if err != nil {
		t.Fatalf("Generate() error = %v, provider failure must not surface", err)
	}

	if len(set.Tweets) != 3 || len(set.LinkedInPosts) != 3 {
		t.Fatalf("fallback lengths = %d/%d, want 3/3", len(set.Tweets), len(set.LinkedInPosts))
	}
	for _, tw := range set.Tweets {
		if !strings.Contains(tw, "quantum computing") {
			t.Errorf("fallback tweet missing topic: %q", tw)
		}
	}
	if !strings.Contains(set.Tweets[0], "#quantumcomputing") {
		t.Errorf("fallback tweet missing hashtag: %q", set.Tweets[0])
	}
}

func TestGenerate_UnparseableResponseFallsBack(t *testing.T) {
	ai := &fakeAI{responses: map[string]string{
		generatePersona: `this is not json at all`,
	}}
	svc := NewContentService(ai, nil, testLogger())
	fixedVariants(svc, 4)

	set, err := svc.Generate(context.Background(), "space tourism", domain.ModeDefault, "")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(set.Tweets) != 4 || len(set.LinkedInPosts) != 4 {
		t.Errorf("fallback lengths = %d/%d, want 4/4", len(set.Tweets), len(set.LinkedInPosts))
	}
}

func TestGenerate_EmptyArraysFallBack(t *testing.T) {
	ai := &fakeAI{responses: map[string]string{
		generatePersona: `{"tweets":[],"linkedinPosts":["only posts"]}`,
	}}
	svc := NewContentService(ai, nil, testLogger())
	fixedVariants(svc, 3)

	set, err := svc.Generate(context.Background(), "solar power", domain.ModeDefault, "")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(set.Tweets) != 3 {
		t.Errorf("len(tweets) = %d, want 3 fallback tweets", len(set.Tweets))
	}
	if len(set.LinkedInPosts) != 1 || set.LinkedInPosts[0] != "only posts" {
		t.Errorf("linkedin = %v, the populated array should be kept", set.LinkedInPosts)
	}
}

func TestGenerate_TruncatesExtraVariants(t *testing.T) {
	ai := &fakeAI{responses: map[string]string{
		generatePersona: `{"tweets":["1","2","3","4","5","6","7"],"linkedinPosts":["1","2","3","4","5"]}`,
	}}
	svc := NewContentService(ai, nil, testLogger())
	fixedVariants(svc, 3)

	set, _ := svc.Generate(context.Background(), "ai", domain.ModeDefault, "")
	if len(set.Tweets) != 3 {
		t.Errorf("len(tweets) = %d, want truncation to 3", len(set.Tweets))
	}
}

func TestGenerate_ThreadsMode(t *testing.T) {
	ai := &fakeAI{responses: map[string]string{
		generatePersona: `{"tweets":["t"],"linkedinPosts":["p"]}`,
		threadsPersona:  `{"threads":[["1/","2/","3/"],["a","b","c","d"]]}`,
	}}
	search := &fakeSearch{results: []serper.Result{
		{Title: "News", Snippet: "snippet", Link: "https://n.example.com"},
	}}
	svc := NewContentService(ai, search, testLogger())
	fixedVariants(svc, 3)

	set, err := svc.Generate(context.Background(), "machine learning", domain.ModeTwitterThreads, "")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(set.Threads) != 2 {
		t.Fatalf("len(threads) = %d, want 2", len(set.Threads))
	}
	if len(set.Threads[0]) != 3 {
		t.Errorf("len(threads[0]) = %d, want 3", len(set.Threads[0]))
	}

	foundExampleQuery := false
	for _, q := range search.queries {
		if q == "machine learning examples news 2024" {
			foundExampleQuery = true
		}
	}
	if !foundExampleQuery {
		t.Errorf("thread example search not issued, queries = %v", search.queries)
	}
}

func TestGenerate_ThreadsOmittedOnFailure(t *testing.T) {
	ai := &fakeAI{responses: map[string]string{
		generatePersona: `{"tweets":["t"],"linkedinPosts":["p"]}`,
		threadsPersona:  `broken json`,
	}}
	svc := NewContentService(ai, nil, testLogger())
	fixedVariants(svc, 3)

	set, err := svc.Generate(context.Background(), "ml", domain.ModeTwitterThreads, "")
	if err != nil {
		t.Fatalf("Generate() error = %v, optional mode failure must not surface", err)
	}
	if set.Threads != nil {
		t.Errorf("threads = %v, want omitted", set.Threads)
	}
	if len(set.Tweets) == 0 {
		t.Error("primary content must survive a mode failure")
	}
}

func TestGenerate_InstagramMode(t *testing.T) {
	ai := &fakeAI{responses: map[string]string{
		generatePersona: `{"tweets":["t"],"linkedinPosts":["p"]}`,
		instagramPersona: `{"instagramPosts":["caption one ✨","caption two 🌍","caption three"]}`,
	}}
	svc := NewContentService(ai, nil, testLogger())
	fixedVariants(svc, 3)

	set, err := svc.Generate(context.Background(), "travel", domain.ModeInstagram, "")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(set.InstagramPosts) != 3 {
		t.Errorf("len(instagram) = %d, want 3", len(set.InstagramPosts))
	}
}

func TestSearchContext_UsesResults(t *testing.T) {
	search := &fakeSearch{results: []serper.Result{
		{Title: "Result", Snippet: "about the topic"},
	}}
	svc := NewContentService(&fakeAI{}, search, testLogger())

	got := svc.searchContext(context.Background(), "topic")
	if len(got) != 1 || got[0] != "Result: about the topic" {
		t.Errorf("searchContext() = %v", got)
	}
}

func TestSearchContext_FallsBackOnError(t *testing.T) {
	search := &fakeSearch{err: errors.New("quota")}
	svc := NewContentService(&fakeAI{}, search, testLogger())

	got := svc.searchContext(context.Background(), "widgets")
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5 fallback snippets", len(got))
	}
	for _, s := range got {
		if !strings.Contains(s, "widgets") {
			t.Errorf("fallback snippet missing topic: %q", s)
		}
	}
}

func TestFallbackDeterministic(t *testing.T) {
	a := fallbackTweets("ai agents", 3)
	b := fallbackTweets("ai agents", 3)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("fallback tweets differ at %d", i)
		}
	}
}
