package transcript

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetch_Success(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			if got := r.URL.Query().Get("v"); got != "abc123" {
				t.Errorf("v = %q, want abc123", got)
			}
			// Track URL escaped the way the watch page embeds it in JSON.
			track := strings.ReplaceAll(server.URL+"/api/timedtext?v=abc123&lang=en&fmt=srv3", "/", `\/`)
			track = strings.ReplaceAll(track, "&", `\u0026`)
			fmt.Fprintf(w, `<html>"captionTracks":[{"baseUrl":"%s"}]</html>`, track)
		case "/api/timedtext":
			// Every query parameter must survive the JSON unescaping.
			if got := r.URL.Query().Get("lang"); got != "en" {
				t.Errorf("lang = %q, want en", got)
			}
			if got := r.URL.Query().Get("fmt"); got != "srv3" {
				t.Errorf("fmt = %q, want srv3", got)
			}
			w.Write([]byte(`<transcript><text start="0" dur="2">hello &amp; welcome</text><text start="2" dur="3">to the show</text></transcript>`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(WithWatchBaseURL(server.URL))
	text, err := client.Fetch(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if text != "hello & welcome to the show" {
		t.Errorf("transcript = %q", text)
	}
}

func TestFetch_NoCaptionTracks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>no captions here</html>`))
	}))
	defer server.Close()

	client := NewClient(WithWatchBaseURL(server.URL))
	if _, err := client.Fetch(context.Background(), "abc123"); err == nil {
		t.Error("Fetch() should fail without caption tracks")
	}
}

func TestFetch_EmptyTrack(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/watch" {
			track := strings.ReplaceAll(server.URL+"/api/timedtext", "/", `\/`)
			fmt.Fprintf(w, `"captionTracks":[{"baseUrl":"%s"}]`, track)
			return
		}
		w.Write([]byte(`<transcript></transcript>`))
	}))
	defer server.Close()

	client := NewClient(WithWatchBaseURL(server.URL))
	if _, err := client.Fetch(context.Background(), "abc123"); err == nil {
		t.Error("Fetch() should fail on an empty caption track")
	}
}

func TestFetch_WatchPageError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(WithWatchBaseURL(server.URL))
	if _, err := client.Fetch(context.Background(), "abc123"); err == nil {
		t.Error("Fetch() should surface watch-page errors")
	}
}
