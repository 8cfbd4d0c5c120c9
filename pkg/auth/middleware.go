package auth

import (
	"context"
	"net/http"

	"github.com/trendora/backend/pkg/httpx"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	adminKey
)

// Middleware validates the "token" header and puts the caller's identity on
// the request context.
func Middleware(issuer *Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("token")
			if raw == "" {
				httpx.Fail(w, http.StatusUnauthorized, "not authorized, login again")
				return
			}
			claims, err := issuer.Parse(raw)
			if err != nil {
				httpx.Fail(w, http.StatusUnauthorized, "not authorized, login again")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
			ctx = context.WithValue(ctx, adminKey, claims.Admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin must be mounted after Middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			httpx.Fail(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

func IsAdmin(ctx context.Context) bool {
	if admin, ok := ctx.Value(adminKey).(bool); ok {
		return admin
	}
	return false
}
