package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bulletform/bulletform-api/internal/constants"
	"github.com/bulletform/bulletform-api/internal/service"
)

// LicenseHandler handles license verification and lookup endpoints.
type LicenseHandler struct {
	licenseSvc *service.LicenseService
	logger     *slog.Logger
}

// NewLicenseHandler creates a new license handler.
func NewLicenseHandler(licenseSvc *service.LicenseService, logger *slog.Logger) *LicenseHandler {
	return &LicenseHandler{
		licenseSvc: licenseSvc,
		logger:     logger,
	}
}

// VerifyLicenseInput represents a license verification request.
type VerifyLicenseInput struct {
	Body struct {
		LicenseKey string `json:"licenseKey,omitempty" doc:"License key to verify"`
	}
}

// VerifyLicenseOutput represents a license verification response.
type VerifyLicenseOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         struct {
		IsValid   bool    `json:"isValid" doc:"Whether the license may be used for a generation"`
		Tier      *string `json:"tier" doc:"License tier, null when the key is unknown"`
		Remaining int     `json:"remaining" doc:"Generations remaining (999 = unlimited)"`
		Email     string  `json:"email,omitempty" doc:"Registrant email, when known"`
	}
}

// VerifyLicense reports whether a license key is usable and how much
// quota remains.
func (h *LicenseHandler) VerifyLicense(ctx context.Context, input *VerifyLicenseInput) (*VerifyLicenseOutput, error) {
	if input.Body.LicenseKey == "" {
		return nil, NewValidationError("licenseKey is required")
	}

	status, err := h.licenseSvc.Validate(ctx, input.Body.LicenseKey)
	if err != nil {
		return nil, translateServiceError(ctx, h.logger, err)
	}

	out := &VerifyLicenseOutput{
		CacheControl: fmt.Sprintf("private, max-age=%d", int(constants.CacheMaxAgeShort.Seconds())),
	}
	out.Body.IsValid = status.IsValid
	out.Body.Remaining = status.Remaining
	if status.Found {
		tier := status.Tier
		out.Body.Tier = &tier
		out.Body.Email = status.Email
	}
	return out, nil
}

// LicenseByOrderInput represents an order lookup request.
type LicenseByOrderInput struct {
	OrderID string `path:"orderId" doc:"Purchase order identifier"`
}

// LicenseByOrderOutput represents an order lookup response.
type LicenseByOrderOutput struct {
	Status int
	Body   struct {
		Found      bool   `json:"found"`
		LicenseKey string `json:"licenseKey,omitempty"`
		Tier       string `json:"tier,omitempty"`
		Email      string `json:"email,omitempty"`
	}
}

// GetLicenseByOrder resolves the license minted for a purchase order.
// Used by the post-checkout success page and support flows.
func (h *LicenseHandler) GetLicenseByOrder(ctx context.Context, input *LicenseByOrderInput) (*LicenseByOrderOutput, error) {
	record, err := h.licenseSvc.LookupByOrder(ctx, input.OrderID)
	if err != nil {
		return nil, translateServiceError(ctx, h.logger, err)
	}

	out := &LicenseByOrderOutput{}
	if record == nil {
		out.Status = http.StatusNotFound
		return out, nil
	}
	out.Status = http.StatusOK
	out.Body.Found = true
	out.Body.LicenseKey = record.LicenseKey
	out.Body.Tier = record.Tier
	out.Body.Email = record.Email
	return out, nil
}
