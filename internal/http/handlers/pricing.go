package handlers

import (
	"context"
	"sort"

	"github.com/bulletform/bulletform-api/internal/constants"
)

// TierInfo is the public description of a purchase tier.
type TierInfo struct {
	Name          string  `json:"name" doc:"Machine-readable tier name"`
	DisplayName   string  `json:"displayName" doc:"User-facing tier name"`
	PriceUSD      float64 `json:"priceUsd" doc:"One-time purchase price in USD (0 = free)"`
	GenerationCap int     `json:"generationCap" doc:"Total generations included (0 = unlimited)"`
	DailyReset    bool    `json:"dailyReset" doc:"True when the cap resets every 24h"`
}

// ListTiersOutput represents the pricing response.
type ListTiersOutput struct {
	Body struct {
		Tiers []TierInfo `json:"tiers"`
	}
}

// ListTiers returns the visible purchase tiers in display order. The
// response is static per build, so it is served CDN-cacheable.
func ListTiers(ctx context.Context, input *struct{}) (*ListTiersOutput, error) {
	names := make([]string, 0, len(constants.Tiers))
	for name, limits := range constants.Tiers {
		if limits.Visible {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return constants.Tiers[names[i]].Order < constants.Tiers[names[j]].Order
	})

	out := &ListTiersOutput{}
	out.Body.Tiers = make([]TierInfo, 0, len(names))
	for _, name := range names {
		limits := constants.Tiers[name]
		out.Body.Tiers = append(out.Body.Tiers, TierInfo{
			Name:          name,
			DisplayName:   limits.DisplayName,
			PriceUSD:      limits.PriceUSD,
			GenerationCap: limits.GenerationCap,
			DailyReset:    limits.DailyReset,
		})
	}
	return out, nil
}
