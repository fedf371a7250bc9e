// Package constants defines centralized configuration for tier limits,
// quota caps, rate limits, and protocol constants. Change values here to
// update limits across the entire application.
package constants

import "time"

// Tier names. Free is never persisted; it is the absence of a license.
const (
	TierFree     = "free"
	TierBasic    = "basic"
	TierLifetime = "lifetime"
)

// UnlimitedSentinel is the finite integer reported on the wire as the
// remaining quota for the lifetime tier. It is a protocol constant for
// "effectively unbounded", not a real cap.
const UnlimitedSentinel = 999

// Quota caps.
const (
	// FreeDailyLimit is the number of generations an anonymous client IP
	// gets per rolling 24h window.
	FreeDailyLimit = 3
	// BasicGenerationCap is the total generations included with a basic
	// license. Never expires.
	BasicGenerationCap = 50
)

// TTLs for key-value store entries.
const (
	// FreeUsageTTL is attached to an IP-keyed usage counter on its first
	// increment. It is set once and never extended (fixed window).
	FreeUsageTTL = 24 * time.Hour
	// DailyStatsTTL bounds retention of the date-bucketed analytics
	// counters.
	DailyStatsTTL = 90 * 24 * time.Hour
)

// Request input bounds for the generate endpoint.
const (
	JobDescriptionMinLength = 50
	JobDescriptionMaxLength = 8000
	ExperienceMinLength     = 20
	ExperienceMaxLength     = 4000
)

// MaxBullets is the maximum number of bullet points returned per
// generation.
const MaxBullets = 10

// Rate limits.
const (
	// GlobalIPRateLimitPerMinute is the in-process fallback limit applied
	// to every request by client IP.
	GlobalIPRateLimitPerMinute = 100
	// GenerateRateLimitPerMinute is the store-backed fixed-window limit
	// for the generate endpoint, enforced across instances.
	GenerateRateLimitPerMinute = 10
)

// HTTP cache lifetimes.
const (
	CacheMaxAgeShort  = 60 * time.Second
	CacheMaxAgeMedium = 5 * time.Minute
)

// DefaultRequestTimeout bounds request handling for all endpoints except
// generation, which waits on the text-generation collaborator.
const (
	DefaultRequestTimeout  = 30 * time.Second
	GenerateRequestTimeout = 2 * time.Minute
)

// TierLimits defines the static configuration for a purchase tier.
type TierLimits struct {
	// DisplayName is the user-facing name for this tier.
	DisplayName string
	// Visible controls whether this tier appears in the public pricing API.
	Visible bool
	// Order controls the display order in pricing tables (lower = first).
	Order int
	// PriceUSD is the one-time purchase price (0 for the free tier).
	PriceUSD float64
	// GenerationCap is the total generations included (0 = unlimited).
	GenerationCap int
	// DailyReset is true when the cap resets every 24h instead of being a
	// lifetime total.
	DailyReset bool
}

// Tiers defines limits for each tier. To change caps or pricing, modify
// this map.
var Tiers = map[string]TierLimits{
	TierFree: {
		DisplayName:   "Free",
		Visible:       true,
		Order:         0,
		PriceUSD:      0,
		GenerationCap: FreeDailyLimit,
		DailyReset:    true,
	},
	TierBasic: {
		DisplayName:   "Basic",
		Visible:       true,
		Order:         1,
		PriceUSD:      9,
		GenerationCap: BasicGenerationCap,
	},
	TierLifetime: {
		DisplayName:   "Lifetime",
		Visible:       true,
		Order:         2,
		PriceUSD:      29,
		GenerationCap: 0, // unlimited
	},
}

// GetTierLimits returns the limits for a tier, defaulting to free.
func GetTierLimits(tier string) TierLimits {
	if limits, ok := Tiers[tier]; ok {
		return limits
	}
	return Tiers[TierFree]
}

// IsPaidTier reports whether the tier name is one of the persisted paid
// tiers.
func IsPaidTier(tier string) bool {
	return tier == TierBasic || tier == TierLifetime
}
