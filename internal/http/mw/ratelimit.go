package mw

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/bulletform/bulletform-api/internal/kv"
)

// RateLimitByIP returns an in-process middleware that rate limits by IP
// address. This is the cheap first line of defense; it is per-instance
// and resets on restart, so it is an approximation, not a correctness
// mechanism.
func RateLimitByIP(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.LimitByIP(requestsPerMinute, time.Minute)
}

// KVRateLimitConfig configures the store-backed fixed-window limiter.
type KVRateLimitConfig struct {
	Store  kv.Store
	Limit  int
	Window time.Duration
	Logger *slog.Logger
}

// KVRateLimit returns middleware enforcing a fixed-window limit keyed by
// client IP in the shared key-value store, so the limit holds across
// server instances. Store failures fail open with a logged warning: the
// limiter is protection, not entitlement, and must not take the API down
// with the store.
func KVRateLimit(cfg KVRateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := GetClientIP(r.Context())
			if ip == "" {
				ip = clientIPFromRequest(r)
			}

			windowStart := time.Now().Truncate(cfg.Window)
			key := fmt.Sprintf("ratelimit:%s:%d", ip, windowStart.Unix())

			n, err := cfg.Store.IncrBy(r.Context(), key, 1)
			if err != nil {
				cfg.Logger.Warn("rate limit store unavailable, allowing request",
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}
			if n == 1 {
				if err := cfg.Store.Expire(r.Context(), key, cfg.Window); err != nil {
					cfg.Logger.Warn("failed to expire rate limit window", "error", err)
				}
			}

			if n > int64(cfg.Limit) {
				retryAfter := int(time.Until(windowStart.Add(cfg.Window)).Seconds()) + 1
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Too Many Requests","code":"RATE_LIMITED","message":"Too many requests. Please retry shortly."}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
