package service

import "errors"

// Sentinel errors surfaced to the HTTP layer, which translates them to
// the wire taxonomy. Collaborator failures are wrapped so transport
// details never reach the client.
var (
	// ErrInvalidInput marks malformed or out-of-bounds request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrLimitReached means the caller's quota is exhausted.
	ErrLimitReached = errors.New("generation limit reached")
	// ErrInvalidLicense means the supplied license key is not usable.
	ErrInvalidLicense = errors.New("license is not usable")
	// ErrGenerationFailed means the text-generation collaborator errored
	// or returned unusable output. The caller was not charged.
	ErrGenerationFailed = errors.New("generation failed")
)
