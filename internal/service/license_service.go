package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bulletform/bulletform-api/internal/constants"
	"github.com/bulletform/bulletform-api/internal/keygen"
	"github.com/bulletform/bulletform-api/internal/models"
	"github.com/bulletform/bulletform-api/internal/repository"
)

// LicenseService owns license lifecycle: creation from paid orders,
// validation, and support lookups. Keys are self-issued at purchase time
// and validated entirely against the local registry.
type LicenseService struct {
	repos        *repository.Repositories
	variantTiers map[int64]string
	logger       *slog.Logger
}

// NewLicenseService creates a license service. variantTiers maps the
// payment vendor's product variant IDs to internal tier names.
func NewLicenseService(repos *repository.Repositories, variantTiers map[int64]string, logger *slog.Logger) *LicenseService {
	return &LicenseService{
		repos:        repos,
		variantTiers: variantTiers,
		logger:       logger,
	}
}

// Validate implements LicenseValidator against the local registry.
// Unknown keys are reported as not found; a basic license with no
// remaining quota is found but not valid.
func (s *LicenseService) Validate(ctx context.Context, licenseKey string) (*LicenseStatus, error) {
	record, err := s.repos.License.Get(ctx, licenseKey)
	if err != nil {
		return nil, fmt.Errorf("validate license: %w", err)
	}
	if record == nil {
		return &LicenseStatus{}, nil
	}

	status := &LicenseStatus{
		Found: true,
		Tier:  record.Tier,
		Email: record.Email,
	}

	limits := constants.GetTierLimits(record.Tier)
	if limits.GenerationCap == 0 {
		// Unbounded tier. The sentinel keeps the wire format a finite
		// integer.
		status.IsValid = true
		status.Remaining = constants.UnlimitedSentinel
		return status, nil
	}

	remaining := limits.GenerationCap - record.GenerationsUsed
	if remaining < 0 {
		remaining = 0
	}
	status.Remaining = remaining
	status.IsValid = remaining > 0
	return status, nil
}

// TierForVariant maps a vendor variant ID to an internal tier, with
// ok=false for unrecognized products.
func (s *LicenseService) TierForVariant(variantID int64) (string, bool) {
	tier, ok := s.variantTiers[variantID]
	return tier, ok
}

// CreateFromOrder mints a license for a paid order event. It returns
// (nil, nil) when no license should be created: unmapped product
// variant, or a replayed delivery that already produced a license.
func (s *LicenseService) CreateFromOrder(ctx context.Context, event *models.PurchaseEvent) (*models.LicenseRecord, error) {
	orderID := event.OrderID()

	tier, ok := s.TierForVariant(event.Data.Attributes.FirstOrderItem.VariantID)
	if !ok {
		s.logger.Warn("order for unmapped product variant, no license created",
			"order_id", orderID,
			"variant_id", event.Data.Attributes.FirstOrderItem.VariantID,
		)
		return nil, nil
	}

	// Claim the order before creating anything so a replayed delivery
	// cannot mint a second key.
	first, err := s.repos.License.MarkOrderProcessed(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("dedupe order %s: %w", orderID, err)
	}
	if !first {
		s.logger.Info("replayed order delivery ignored", "order_id", orderID)
		return nil, nil
	}

	key, err := keygen.NewLicenseKey()
	if err != nil {
		s.releaseOrderClaim(ctx, orderID)
		return nil, fmt.Errorf("mint license key: %w", err)
	}

	record := &models.LicenseRecord{
		LicenseKey:  key,
		Tier:        tier,
		Email:       event.Data.Attributes.UserEmail,
		PurchasedAt: event.Data.Attributes.CreatedAt,
		OrderID:     orderID,
	}
	if err := s.repos.License.Create(ctx, record); err != nil {
		s.releaseOrderClaim(ctx, orderID)
		return nil, fmt.Errorf("create license for order %s: %w", orderID, err)
	}

	s.logger.Info("license created",
		"order_id", orderID,
		"tier", tier,
	)
	return record, nil
}

// releaseOrderClaim undoes the dedup claim after a failed creation, so
// the vendor's retry of the 500 response can mint. A failed release
// leaves the order claimed-but-licenseless, which support must clear.
func (s *LicenseService) releaseOrderClaim(ctx context.Context, orderID string) {
	if err := s.repos.License.ReleaseOrder(ctx, orderID); err != nil {
		s.logger.Error("failed to release order claim after create failure",
			"order_id", orderID,
			"error", err,
		)
	}
}

// LookupByOrder resolves the order index for success-page and support
// flows. Returns nil when the order has no license.
func (s *LicenseService) LookupByOrder(ctx context.Context, orderID string) (*models.LicenseRecord, error) {
	record, err := s.repos.License.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("lookup license by order: %w", err)
	}
	return record, nil
}

// LookupByEmail resolves the email index for support flows.
func (s *LicenseService) LookupByEmail(ctx context.Context, email string) (*models.LicenseRecord, error) {
	record, err := s.repos.License.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup license by email: %w", err)
	}
	return record, nil
}
