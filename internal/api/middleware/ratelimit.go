package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/careops/platform/internal/api/response"
	"github.com/careops/platform/internal/repository/redis"
)

// RateLimitMiddleware handles rate limiting
type RateLimitMiddleware struct {
	rateLimiter *redis.RateLimiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(rateLimiter *redis.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter}
}

// LimitByUser applies rate limiting keyed on the authenticated user
func (m *RateLimitMiddleware) LimitByUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		if !ok {
			response.Unauthorized(w, "unauthorized")
			return
		}

		m.limit(w, r, "user:"+userID.String(), next)
	})
}

// LimitByIP applies rate limiting keyed on the client address, for public
// and webhook endpoints that have no authenticated user.
func (m *RateLimitMiddleware) LimitByIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.limit(w, r, "ip:"+r.RemoteAddr, next)
	})
}

func (m *RateLimitMiddleware) limit(w http.ResponseWriter, r *http.Request, key string, next http.Handler) {
	allowed, remaining, resetTime, err := m.rateLimiter.Allow(r.Context(), key)
	if err != nil {
		// Redis being down should not take the API with it
		next.ServeHTTP(w, r)
		return
	}

	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	w.Header().Set("X-RateLimit-Reset", resetTime.Format(time.RFC3339))

	if !allowed {
		response.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	next.ServeHTTP(w, r)
}
