package service

import "context"

// LicenseStatus is the outcome of validating a license key.
type LicenseStatus struct {
	// Found is true when the key resolves to a stored license record.
	Found bool
	// IsValid is true when the license may be used for a generation.
	IsValid bool
	// Tier is "basic" or "lifetime" when Found.
	Tier string
	// Email is the registrant email when Found.
	Email string
	// Remaining is the usable generations left. For the lifetime tier it
	// is the unlimited sentinel.
	Remaining int
}

// LicenseValidator decides whether a license key is usable. The rest of
// the system is strategy-agnostic: the shipped implementation validates
// self-issued keys against the local registry, but a delegate to an
// external licensing API satisfies the same contract.
type LicenseValidator interface {
	Validate(ctx context.Context, licenseKey string) (*LicenseStatus, error)
}
