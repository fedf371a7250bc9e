// Package repository provides data access over the key-value store:
// usage counters, license records, and their secondary indexes.
package repository

import (
	"context"

	"github.com/bulletform/bulletform-api/internal/models"
)

// UsageRepository meters generations per identifier. An identifier is
// either a client IP (free tier) or a license key (paid tier).
type UsageRepository interface {
	// GetCount returns the consumed generation count, 0 when absent.
	GetCount(ctx context.Context, identifier string) (int64, error)
	// Increment atomically bumps the counter and returns the new value.
	// On the counter's first increment, a 24h TTL is attached unless the
	// identifier belongs to a paid-unlimited license. The TTL is never
	// reset on subsequent increments (fixed window).
	Increment(ctx context.Context, identifier string, paidUnlimited bool) (int64, error)
	// TrackDailyGeneration bumps the date-bucketed analytics counter
	// (90-day TTL). Best-effort: failures must never block a response.
	TrackDailyGeneration(ctx context.Context, date string) error
	// GetDailyGenerations returns the analytics counter for a date.
	GetDailyGenerations(ctx context.Context, date string) (int64, error)
}

// LicenseRepository stores license records keyed by license key, with
// secondary indexes by email and by originating order ID.
type LicenseRepository interface {
	// Create writes the record, then the email and order indexes. The
	// three writes are not transactional; a record with a missing index
	// is a support-recoverable state, not an entitlement violation
	// (entitlement always resolves license-key-first).
	Create(ctx context.Context, record *models.LicenseRecord) error
	// Get returns the record or nil when the key is unknown.
	Get(ctx context.Context, licenseKey string) (*models.LicenseRecord, error)
	// IncrementUsage bumps GenerationsUsed and returns the updated
	// record, or nil when the key is unknown.
	IncrementUsage(ctx context.Context, licenseKey string) (*models.LicenseRecord, error)
	// GetByEmail resolves the email index, nil when absent.
	GetByEmail(ctx context.Context, email string) (*models.LicenseRecord, error)
	// GetByOrderID resolves the order index, nil when absent.
	GetByOrderID(ctx context.Context, orderID string) (*models.LicenseRecord, error)
	// MarkOrderProcessed atomically records that a webhook order has been
	// handled, reporting whether this call was the first. Replayed
	// deliveries observe first=false and must not create a second
	// license.
	MarkOrderProcessed(ctx context.Context, orderID string) (first bool, err error)
	// ReleaseOrder removes the processed-order claim so a retried
	// delivery can mint. Called when license creation fails after the
	// claim was taken.
	ReleaseOrder(ctx context.Context, orderID string) error
}

// Repositories holds all repository instances.
type Repositories struct {
	Usage   UsageRepository
	License LicenseRepository
}
