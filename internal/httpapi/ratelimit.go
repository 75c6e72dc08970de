package httpapi

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimit applies one token bucket across the whole API surface. Snapshot
// streaming happens over the websocket, so the HTTP side stays cheap enough
// for a single shared bucket.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	lim := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !lim.Allow() {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
