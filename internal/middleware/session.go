package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/skypeek/skypeek/internal/model"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_id"

// sessionCookieMaxAge keeps the anonymous identity for one year.
const sessionCookieMaxAge = 365 * 24 * 60 * 60

// userKey is the context key for the resolved user.
const userKey contextKey = "user"

// UserStore resolves a session token to a durable user record,
// creating one on first contact.
type UserStore interface {
	GetOrCreateUser(ctx context.Context, sessionID string) (*model.User, error)
}

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger *slog.Logger
	Users  UserStore
	Secure bool // Set the Secure cookie attribute (production)
}

// Session returns middleware that establishes an anonymous identity for
// each request: it reads the session cookie (minting a fresh token when
// none is presented), get-or-creates the durable user for that token,
// and injects the user into the request context. Identity is resolved
// exactly once per request and threaded through the context.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				sessionID = cookie.Value
			}

			fresh := sessionID == ""
			if fresh {
				sessionID = uuid.New().String()
			}

			user, err := cfg.Users.GetOrCreateUser(r.Context(), sessionID)
			if err != nil {
				cfg.Logger.Error("failed to resolve session user",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeSessionError(w)
				return
			}

			if fresh {
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   sessionCookieMaxAge,
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeSessionError writes a 500 response in the API error shape.
func writeSessionError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"error":"session could not be established","code":"SESSION_ERROR"}`))
}

// UserFromContext retrieves the session user from context.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok
}
