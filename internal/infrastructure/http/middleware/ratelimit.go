package middleware

import (
	"fmt"
	"net/http"

	"github.com/fitchef/fitchef/internal/infrastructure/config"
	"golang.org/x/time/rate"
)

// RateLimit applies a global token-bucket limit across all API requests.
// The per-user free quota is enforced separately in the generation service;
// this limiter only protects the process from request floods.
func RateLimit(cfg config.RateLimitConfig) func(next http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMin)/60.0), cfg.BurstSize)

	return func(next http.Handler) http.Handler {
		if !cfg.Enable {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				fmt.Fprint(w, `{"error":"Muitas requisições. Tente novamente em instantes."}`)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
