package mw

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bulletform/bulletform-api/internal/constants"
)

// CachePolicy defines caching behavior for a route pattern.
type CachePolicy struct {
	// Pattern is the route pattern to match (prefix match).
	Pattern string
	// CacheControl is the Cache-Control header value to set.
	CacheControl string
}

// CacheConfig holds the cache middleware configuration.
type CacheConfig struct {
	// Policies are matched in order, first match wins.
	Policies []CachePolicy
	// DefaultPolicy applies when no policy matches (empty = no header).
	DefaultPolicy string
}

// DefaultCacheConfig returns cache defaults for the API. Entitlement
// responses are never cached; pricing is CDN-friendly.
func DefaultCacheConfig() CacheConfig {
	shortSecs := int(constants.CacheMaxAgeShort.Seconds())
	mediumSecs := int(constants.CacheMaxAgeMedium.Seconds())

	return CacheConfig{
		DefaultPolicy: "private, no-cache",
		Policies: []CachePolicy{
			{Pattern: "/api/v1/health", CacheControl: fmt.Sprintf("public, max-age=%d", shortSecs)},
			{Pattern: "/api/v1/pricing/tiers", CacheControl: fmt.Sprintf("public, max-age=%d, stale-while-revalidate=60", mediumSecs)},

			// Probes must reflect real-time state
			{Pattern: "/healthz", CacheControl: "no-store"},
			{Pattern: "/readyz", CacheControl: "no-store"},

			// License lookups change when usage is charged
			{Pattern: "/api/v1/license/", CacheControl: fmt.Sprintf("private, max-age=%d", shortSecs)},
			{Pattern: "/api/v1/stats/", CacheControl: "private, no-cache"},
		},
	}
}

// Cache returns middleware that sets Cache-Control headers based on
// route patterns. Non-GET/HEAD requests get "no-store"; handlers may
// override the header for responses with documented cacheability (the
// license verification endpoint is cacheable despite being a POST).
func Cache(cfg CacheConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				w.Header().Set("Cache-Control", "no-store")
				next.ServeHTTP(w, r)
				return
			}

			path := r.URL.Path
			for _, policy := range cfg.Policies {
				if path == policy.Pattern || strings.HasPrefix(path, policy.Pattern) {
					w.Header().Set("Cache-Control", policy.CacheControl)
					next.ServeHTTP(w, r)
					return
				}
			}

			if cfg.DefaultPolicy != "" {
				w.Header().Set("Cache-Control", cfg.DefaultPolicy)
			}
			next.ServeHTTP(w, r)
		})
	}
}
