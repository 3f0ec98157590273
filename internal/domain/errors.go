package domain

import (
	"errors"
	"strconv"
)

// Domain errors.
var (
	// ErrNotAuthenticated is returned when no access token is available for the session.
	ErrNotAuthenticated = errors.New("not connected to X")

	// ErrSessionNotFound is returned when a session id has no stored session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrStateNotFound is returned when an OAuth state has no pending flow entry.
	ErrStateNotFound = errors.New("oauth state not found")

	// ErrStateExpired is returned when a pending OAuth flow entry is past its TTL.
	ErrStateExpired = errors.New("oauth state expired")

	// ErrPostTooLong is returned when post text exceeds the provider limit.
	ErrPostTooLong = errors.New("post exceeds 280 characters")

	// ErrEmptyTopic is returned when a generation request has no topic.
	ErrEmptyTopic = errors.New("topic cannot be empty")

	// ErrInvalidVideoURL is returned when a URL is not a recognizable video link.
	ErrInvalidVideoURL = errors.New("invalid video URL")

	// ErrInvalidArticleURL is returned when a URL cannot be parsed as an article link.
	ErrInvalidArticleURL = errors.New("invalid article URL")

	// ErrUnsupportedCategory is returned for trending categories outside the fixed set.
	ErrUnsupportedCategory = errors.New("unsupported category")

	// ErrUnsupportedMood is returned for generation moods outside the fixed set.
	ErrUnsupportedMood = errors.New("unsupported mood")

	// ErrUpstream is returned when an external provider call fails with no fallback path.
	ErrUpstream = errors.New("upstream provider call failed")
)

// UpstreamError wraps a provider failure with the operation and provider name.
// The provider's raw response body is kept for diagnostics only and must never
// be echoed to end users.
type UpstreamError struct {
	Provider string
	Op       string
	Status   int
	// Detail is a short provider-supplied message safe to surface to callers.
	Detail string
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Detail != "" {
		return e.Provider + ": " + e.Op + ": " + e.Detail
	}
	if e.Status != 0 {
		return e.Provider + ": " + e.Op + ": status " + strconv.Itoa(e.Status)
	}
	if e.Err != nil {
		return e.Provider + ": " + e.Op + ": " + e.Err.Error()
	}
	return e.Provider + ": " + e.Op + " failed"
}

func (e *UpstreamError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUpstream
}

// Is lets errors.Is(err, ErrUpstream) match any UpstreamError.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
