// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"inkwell/internal/services"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const claimsKey contextKey = "claims"

// TokenValidator checks a token against the live session registry.
type TokenValidator interface {
	IsValid(ctx context.Context, token string) (bool, error)
}

// ClaimsFromCtx extracts the authenticated claims from the request
// context. Returns nil for unauthenticated requests.
func ClaimsFromCtx(ctx context.Context) *services.Claims {
	claims, _ := ctx.Value(claimsKey).(*services.Claims)
	return claims
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}

// RequireAuth verifies the Bearer token signature and checks the token
// is the holder's current session. A valid but displaced token (a newer
// login happened) is rejected the same as an expired one.
func RequireAuth(tokens *services.TokenService, sessions TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeUnauthorized(w, "missing bearer token")
				return
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			live, err := sessions.IsValid(r.Context(), token)
			if err != nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if !live {
				writeUnauthorized(w, "session is no longer active")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns 403 if the authenticated user is not an admin.
// Must be applied after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromCtx(r.Context())
		if claims == nil || claims.Role != "admin" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
