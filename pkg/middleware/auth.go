package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aurelben/boutiq/pkg/auth"
	"github.com/aurelben/boutiq/pkg/crypt"
	"github.com/aurelben/boutiq/pkg/response"
)

type userIDKey struct{}
type adminKey struct{}

// RememberCookie is the long-lived "remember me" cookie set at login. Its
// value is an AES-GCM encrypted JSON blob, so it can only have been minted
// by this application.
const RememberCookie = "boutiq_remember"

// RememberPayload is what the remember cookie decrypts to.
type RememberPayload struct {
	UserID uint `json:"user_id"`
	Admin  bool `json:"admin"`
}

// Auth authenticates the request: a Bearer token takes precedence, the
// remember cookie is the fallback. Unauthenticated requests are rejected
// with a 401 before reaching the handler.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, admin, ok := identify(r); ok {
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), id, admin)))
			return
		}
		response.Unauthorized(w)
	})
}

// Identify is the optional variant: it decorates the context when
// credentials are present but lets anonymous requests through. Used by
// guest-only routes.
func Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, admin, ok := identify(r); ok {
			r = r.WithContext(withUser(r.Context(), id, admin))
		}
		next.ServeHTTP(w, r)
	})
}

func identify(r *http.Request) (uint, bool, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token != "" && token != r.Header.Get("Authorization") {
		if claims, err := auth.ValidateToken(token); err == nil {
			return claims.UserID, claims.Admin, true
		}
		return 0, false, false
	}

	if cookie, err := r.Cookie(RememberCookie); err == nil {
		var payload RememberPayload
		if err := crypt.DecryptJSON(cookie.Value, &payload); err == nil && payload.UserID != 0 {
			return payload.UserID, payload.Admin, true
		}
	}

	return 0, false, false
}

func withUser(ctx context.Context, id uint, admin bool) context.Context {
	ctx = context.WithValue(ctx, userIDKey{}, id)
	return context.WithValue(ctx, adminKey{}, admin)
}

// UserIDFromCtx returns the authenticated user's id, if any.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(userIDKey{}).(uint)
	return id, ok
}

// IsAdminFromCtx reports whether the authenticated user is an admin.
func IsAdminFromCtx(r *http.Request) bool {
	admin, _ := r.Context().Value(adminKey{}).(bool)
	return admin
}
