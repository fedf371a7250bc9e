// Package models contains the domain types persisted in the key-value
// store and the transient webhook payload shapes.
package models

// LicenseRecord is the persisted state of a paid license. It is created
// exactly once per successful paid order and never deleted in normal
// operation. GenerationsUsed is the sole usage counter for paid tiers.
type LicenseRecord struct {
	// LicenseKey is the canonical opaque key: four uppercase alphanumeric
	// groups of four, hyphen separated, ambiguous characters excluded.
	LicenseKey string `json:"license_key"`
	// Tier is "basic" or "lifetime". The free tier is never persisted.
	Tier string `json:"tier"`
	// Email is the registrant email, also used as a secondary lookup key.
	Email string `json:"email"`
	// PurchasedAt is the purchase timestamp in ISO-8601 form, taken from
	// the order event.
	PurchasedAt string `json:"purchased_at"`
	// OrderID is the originating purchase order, also a secondary lookup
	// key.
	OrderID string `json:"order_id"`
	// GenerationsUsed counts successful generations charged to this
	// license. Monotonically non-decreasing.
	GenerationsUsed int `json:"generations_used"`
}
