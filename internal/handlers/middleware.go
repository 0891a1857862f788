package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"taskflow/internal/models"
	"taskflow/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserContextKey ContextKey = "user"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	jwtSecret   []byte
	rateLimiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(jwtSecret []byte, rateLimiter *security.RateLimiter) *Middleware {
	return &Middleware{
		jwtSecret:   jwtSecret,
		rateLimiter: rateLimiter,
	}
}

// RequireAuth requires a valid bearer token. The user identity is
// resolved from the token claims without a database round trip.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authorization token required"})
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authorization token required"})
			return
		}

		claims, err := security.ParseToken(tokenString, m.jwtSecret)
		if err != nil {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Invalid or expired token"})
			return
		}

		user := &models.User{
			ID:       claims.UserID,
			Username: claims.Username,
			Email:    claims.Email,
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit rejects clients exceeding the request rate
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.rateLimiter.Allow(ip) {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Too many requests, please try again later"})
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
