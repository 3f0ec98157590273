package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/draftwell/draftwell/internal/domain"
)

// SessionCookie is the http-only cookie carrying the opaque session id.
const SessionCookie = "dw_session"

type ctxKey int

const sessionIDKey ctxKey = iota

// Session assigns every request a session id, minting one (and setting the
// cookie) when the browser has none. Handlers read it with SessionID.
func Session(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id domain.SessionID
			if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
				id = domain.SessionID(c.Value)
			} else {
				id = domain.SessionID(uuid.NewString())
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    string(id),
					Path:     "/",
					MaxAge:   30 * 24 * 60 * 60,
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID returns the session id assigned by the Session middleware.
func SessionID(r *http.Request) domain.SessionID {
	if id, ok := r.Context().Value(sessionIDKey).(domain.SessionID); ok {
		return id
	}
	return ""
}
