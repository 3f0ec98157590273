package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/draftwell/draftwell/internal/domain"
	"github.com/draftwell/draftwell/internal/service"
	"github.com/draftwell/draftwell/pkg/openai"
)

// fakeAI answers every chat with the same canned content.
type fakeAI struct {
	content  string
	err      error
	imageB64 string
	imageErr error
}

func (f *fakeAI) ChatJSON(ctx context.Context, req openai.ChatRequest) (string, error) {
	return f.content, f.err
}

func (f *fakeAI) GenerateImage(ctx context.Context, req openai.ImageRequest) (string, error) {
	if f.imageErr != nil {
		return "", f.imageErr
	}
	return f.imageB64, nil
}

func newGenerateHandler(ai openai.Client) *GenerateHandler {
	svc := service.NewContentService(ai, nil, testLogger())
	return NewGenerateHandler(svc, false, testLogger())
}

func generateRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate/content", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestGenerateContent_Success(t *testing.T) {
	ai := &fakeAI{content: `{"tweets":["t1","t2","t3"],"linkedinPosts":["p1","p2","p3"]}`}
	h := newGenerateHandler(ai)

	w := serve(h.Content, generateRequest(`{"topic":"electric vehicles"}`))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp ContentResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Topic != "electric vehicles" {
		t.Errorf("topic = %q", resp.Topic)
	}
	if len(resp.Tweets) != 3 || len(resp.LinkedInPosts) != 3 {
		t.Errorf("lengths = %d/%d, want 3/3", len(resp.Tweets), len(resp.LinkedInPosts))
	}
	if len(resp.SearchResults) == 0 {
		t.Error("search results should be populated")
	}
	if resp.Threads != nil || resp.InstagramPosts != nil {
		t.Error("optional modes should be absent in default mode")
	}
}

func TestGenerateContent_MissingTopic(t *testing.T) {
	h := newGenerateHandler(&fakeAI{})

	for _, body := range []string{`{}`, `{"topic":""}`} {
		w := serve(h.Content, generateRequest(body))
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want %d", body, w.Code, http.StatusBadRequest)
		}
	}
}

func TestGenerateContent_WhitespaceTopic(t *testing.T) {
	h := newGenerateHandler(&fakeAI{})

	w := serve(h.Content, generateRequest(`{"topic":"   "}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestGenerateContent_UnsupportedMood(t *testing.T) {
	h := newGenerateHandler(&fakeAI{content: `{"tweets":["t"],"linkedinPosts":["p"]}`})

	w := serve(h.Content, generateRequest(`{"topic":"ai","mood":"sarcastic"}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if !strings.Contains(w.Body.String(), "unsupported mood") {
		t.Errorf("body = %s, want unsupported mood message", w.Body.String())
	}
}

func TestGenerateContent_InvalidBody(t *testing.T) {
	h := newGenerateHandler(&fakeAI{})

	w := serve(h.Content, generateRequest(`{broken`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestGenerateContent_ProviderDownStillSucceeds(t *testing.T) {
	ai := &fakeAI{err: errors.New("provider down")}
	h := newGenerateHandler(ai)

	w := serve(h.Content, generateRequest(`{"topic":"solar power"}`))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, fallback content should still answer 200", w.Code)
	}
	var resp ContentResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Tweets) == 0 || len(resp.LinkedInPosts) == 0 {
		t.Error("fallback arrays must be non-empty")
	}
}

func imageRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate/image", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestGenerateImage_Success(t *testing.T) {
	h := newGenerateHandler(&fakeAI{imageB64: "aW1hZ2U="})

	w := serve(h.Image, imageRequest(`{"prompt":"AI trends visual"}`))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp map[string]string
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["imageBase64"] != "aW1hZ2U=" {
		t.Errorf("imageBase64 = %q", resp["imageBase64"])
	}
}

func TestGenerateImage_MissingPrompt(t *testing.T) {
	h := newGenerateHandler(&fakeAI{})

	w := serve(h.Image, imageRequest(`{}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestGenerateImage_UpstreamFailure(t *testing.T) {
	h := newGenerateHandler(&fakeAI{imageErr: &domain.UpstreamError{
		Provider: "openai",
		Op:       "image generation",
		Status:   http.StatusBadRequest,
		Detail:   "content policy violation",
	}})

	w := serve(h.Image, imageRequest(`{"prompt":"x"}`))
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadGateway)
	}
}
