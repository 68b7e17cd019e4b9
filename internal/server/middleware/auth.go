// Package middleware provides HTTP middleware for authentication.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// TokenCookieName is the HttpOnly cookie carrying the session token.
const TokenCookieName = "token"

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// userIDKey is the context key for storing the authenticated user ID.
const userIDKey ContextKey = "userID"

// TokenValidator is an interface for validating JWT tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (UserIDGetter, error)
}

// UserIDGetter is an interface for extracting user ID from token claims.
type UserIDGetter interface {
	GetUserID() uuid.UUID
}

// AuthMiddleware validates the request token and adds the user ID to the request context.
// The token comes from "Authorization: Bearer <token>" or, when that header is
// absent, from the token cookie.
func AuthMiddleware(jwtService TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := TokenFromRequest(r)
			if !ok {
				unauthorized(w)
				return
			}

			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.GetUserID())))
		})
	}
}

// TokenFromRequest extracts the bearer token or the token cookie. A present
// but malformed Authorization header is rejected rather than falling back.
func TokenFromRequest(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		// Handle case-insensitive "Bearer" prefix
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		return parts[1], true
	}

	cookie, err := r.Cookie(TokenCookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return "", false
	}
	return cookie.Value, true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}` + "\n"))
}

// WithUserID returns a context carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, error) {
	userID, ok := r.Context().Value(userIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("user ID not found in request context")
	}
	return userID, nil
}
