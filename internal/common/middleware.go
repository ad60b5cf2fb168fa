package common

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	ContextUserID contextKey = "user_id"
	ContextHandle contextKey = "handle"
)

// Paths reachable without a token.
var publicPaths = map[string]bool{
	"/api/v1/auth/register": true,
	"/api/v1/auth/login":    true,
	"/health":               true,
}

// AuthMiddleware enforces Bearer JWT auth on every route except the
// public ones, and injects the caller's identity into the request
// context for the handlers.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "authorization required", http.StatusUnauthorized)
			return
		}

		// Authorization: Bearer <token>
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "invalid auth header", http.StatusUnauthorized)
			return
		}

		claims, err := ValidToken(parts[1])
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserID, claims.UserID)
		ctx = context.WithValue(ctx, ContextHandle, claims.Handle)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext extracts the authenticated user id injected by
// AuthMiddleware.
func UserIDFromContext(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(ContextUserID).(uint64)
	return id, ok
}
