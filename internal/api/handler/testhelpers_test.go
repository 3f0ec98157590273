package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/draftwell/draftwell/internal/api/middleware"
	"github.com/draftwell/draftwell/internal/domain"
	"github.com/draftwell/draftwell/internal/session"
	"github.com/draftwell/draftwell/pkg/twitter"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore() session.Store {
	return session.NewMemoryStore(time.Hour)
}

// serve runs the handler behind the session middleware, the way the router
// wires it. Requests carrying a dw_session cookie keep that session id.
func serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	middleware.Session(false)(h).ServeHTTP(w, r)
	return w
}

func withSessionCookie(r *http.Request, id string) *http.Request {
	r.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: id})
	return r
}

func connectedSession(store session.Store, id string) {
	store.Put(context.Background(), &domain.Session{
		ID: domain.SessionID(id),
		Tokens: &domain.TokenSet{
			AccessToken: "valid-token",
			ExpiresAt:   time.Now().Add(time.Hour),
		},
		User: &domain.ProviderUser{ID: "42", Username: "ada", DisplayName: "Ada L"},
	})
}

// fakeFlow is a canned OAuthFlow.
type fakeFlow struct {
	authURL   string
	tokens    *domain.TokenSet
	exchErr   error
	exchCalls int
}

func (f *fakeFlow) AuthCodeURL(state, verifier string) string {
	return f.authURL + "?state=" + state
}

func (f *fakeFlow) Exchange(ctx context.Context, code, verifier string) (*domain.TokenSet, error) {
	f.exchCalls++
	if f.exchErr != nil {
		return nil, f.exchErr
	}
	return f.tokens, nil
}

// fakeSocialAPI is a canned SocialAPI / UserFetcher.
type fakeSocialAPI struct {
	post      *twitter.Post
	postErr   error
	user      *domain.ProviderUser
	userErr   error
	lastText  string
	lastToken string
}

func (f *fakeSocialAPI) PostTweet(ctx context.Context, accessToken, text string) (*twitter.Post, error) {
	f.lastToken = accessToken
	f.lastText = text
	if f.postErr != nil {
		return nil, f.postErr
	}
	return f.post, nil
}

func (f *fakeSocialAPI) GetUser(ctx context.Context, accessToken string) (*domain.ProviderUser, error) {
	f.lastToken = accessToken
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}
