package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"clubhouse/internal/domain/user"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const userContextKey contextKey = "user"

const sessionCookieName = "clubhouse_session"

// SecureCookies controls the Secure flag on session cookies. Set to true
// in production.
var SecureCookies = false

// sessionPayload is what the cookie actually stores: the user id, nothing
// more. The roster is re-consulted on every request, so a deleted user's
// cookie stops working immediately and sessions survive restarts.
type sessionPayload struct {
	ID string `json:"id"`
}

// UserResolver maps a persisted user id back to the current roster entry.
type UserResolver func(userID string) (user.User, bool)

// Auth returns middleware that restores the session user from the cookie
// and sets it in the request context. It does NOT block unauthenticated
// requests; use RequireAuth or RequireAdmin for that.
func Auth(resolve UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if id, ok := decodeSession(cookie.Value); ok {
					if u, ok := resolve(id); ok {
						r = r.WithContext(ContextWithUser(r.Context(), u))
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that blocks unauthenticated requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns middleware that blocks requests from non-admins.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		if !u.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext extracts the session user from the request context.
func UserFromContext(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(userContextKey).(user.User)
	return u, ok
}

// ContextWithUser returns a context with the given user set.
// Handlers resolve it via UserFromContext; tests use it directly.
func ContextWithUser(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// SetSessionCookie writes the session cookie for a logged-in user.
func SetSessionCookie(w http.ResponseWriter, userID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encodeSession(userID),
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   86400 * 30,
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func encodeSession(userID string) string {
	b, _ := json.Marshal(sessionPayload{ID: userID})
	return base64.URLEncoding.EncodeToString(b)
}

func decodeSession(value string) (string, bool) {
	raw, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return "", false
	}
	var p sessionPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.ID == "" {
		return "", false
	}
	return p.ID, true
}
