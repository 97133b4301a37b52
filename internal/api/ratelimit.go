package api

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/overpower-tools/deckbuilder/internal/api/response"
)

// rateLimitMiddleware applies one shared token-bucket limiter to all
// requests. The API serves a single local user; per-client buckets would
// add bookkeeping for no benefit.
func rateLimitMiddleware(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				response.JSON(w, http.StatusTooManyRequests, response.ErrorResponse{
					Error:   http.StatusText(http.StatusTooManyRequests),
					Message: "rate limit exceeded",
					Code:    http.StatusTooManyRequests,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
