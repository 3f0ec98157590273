package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTokenSet_Valid(t *testing.T) {
	tests := []struct {
		name   string
		tokens *TokenSet
		want   bool
	}{
		{"nil set", nil, false},
		{"no access token", &TokenSet{}, false},
		{"unexpired", &TokenSet{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour)}, true},
		{"expired", &TokenSet{AccessToken: "tok", ExpiresAt: time.Now().Add(-time.Hour)}, false},
		{"no expiry", &TokenSet{AccessToken: "tok"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tokens.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthFlow_Expired(t *testing.T) {
	now := time.Now()
	flow := &AuthFlow{State: "s", CreatedAt: now}

	if flow.Expired(now.Add(AuthFlowTTL - time.Second)) {
		t.Error("flow should still be valid just inside the TTL")
	}
	if !flow.Expired(now.Add(AuthFlowTTL + time.Second)) {
		t.Error("flow should be expired past the TTL")
	}
}

func TestSession_Connected(t *testing.T) {
	var nilSession *Session
	if nilSession.Connected() {
		t.Error("nil session should not be connected")
	}

	s := &Session{ID: "abc"}
	if s.Connected() {
		t.Error("session without tokens should not be connected")
	}

	s.Tokens = &TokenSet{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour)}
	if !s.Connected() {
		t.Error("session with valid tokens should be connected")
	}

	s.Tokens.ExpiresAt = time.Now().Add(-time.Minute)
	if s.Connected() {
		t.Error("session with expired tokens should not be connected")
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range TrendingCategories {
		if !ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = false, want true", c)
		}
	}
	for _, c := range []string{"", "tech", "Gaming", "BUSINESS"} {
		if ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = true, want false", c)
		}
	}
}

func TestValidMood(t *testing.T) {
	for _, m := range ContentMoods {
		if !ValidMood(m) {
			t.Errorf("ValidMood(%q) = false, want true", m)
		}
	}
	for _, m := range []ContentMood{"", "sarcastic", "Professional"} {
		if ValidMood(m) {
			t.Errorf("ValidMood(%q) = true, want false", m)
		}
	}
}

func TestUpstreamError(t *testing.T) {
	inner := errors.New("connection reset")
	err := &UpstreamError{Provider: "twitter", Op: "post tweet", Status: 503, Err: inner}

	if !errors.Is(err, ErrUpstream) {
		t.Error("UpstreamError should match ErrUpstream")
	}
	if !errors.Is(err, inner) {
		t.Error("UpstreamError should unwrap to the inner error")
	}

	msg := err.Error()
	if !strings.Contains(msg, "twitter") || !strings.Contains(msg, "503") {
		t.Errorf("Error() = %q, want provider and status in message", msg)
	}

	var ue *UpstreamError
	if !errors.As(err, &ue) || ue.Status != 503 {
		t.Errorf("errors.As failed or wrong status: %+v", ue)
	}
}
