// Package rbac provides access-control middleware over the authenticated
// request context.
package rbac

import (
	"net/http"

	"github.com/aurelben/boutiq/pkg/middleware"
	"github.com/aurelben/boutiq/pkg/response"
)

// AdminOnly allows only users carrying the admin flag. Requires
// middleware.Auth to have already run.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !middleware.IsAdminFromCtx(r) {
			response.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Guest blocks authenticated users. Used for login and register so a
// signed-in session cannot re-authenticate. Pair with middleware.Identify.
func Guest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.UserIDFromCtx(r); ok {
			response.Error(w, http.StatusConflict, "Already authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}
