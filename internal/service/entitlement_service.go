package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bulletform/bulletform-api/internal/constants"
	"github.com/bulletform/bulletform-api/internal/repository"
)

// DenyReason classifies why a request was not entitled to generate.
type DenyReason string

const (
	DenyLimitReached   DenyReason = "limit_reached"
	DenyInvalidLicense DenyReason = "invalid_license"
)

// Decision is the outcome of an entitlement check. When Allowed, the
// Remaining value already reserves the slot for the current request;
// Charge settles the counter after the generation succeeds.
type Decision struct {
	Allowed    bool
	Reason     DenyReason // set when !Allowed
	Tier       string
	Remaining  int
	LicenseKey string // set for paid requests
	ClientIP   string // counter identifier for free requests
}

// EntitlementService composes the license validator and the usage
// ledger into the allow/deny decision for a generation request.
type EntitlementService struct {
	validator LicenseValidator
	repos     *repository.Repositories
	logger    *slog.Logger
}

// NewEntitlementService creates an entitlement service.
func NewEntitlementService(validator LicenseValidator, repos *repository.Repositories, logger *slog.Logger) *EntitlementService {
	return &EntitlementService{
		validator: validator,
		repos:     repos,
		logger:    logger,
	}
}

// Check decides whether a request may generate. Store failures fail
// closed: the error propagates and the request is denied, never treated
// as "no usage".
func (s *EntitlementService) Check(ctx context.Context, clientIP, licenseKey string) (*Decision, error) {
	if licenseKey != "" {
		return s.checkLicensed(ctx, licenseKey)
	}
	return s.checkFree(ctx, clientIP)
}

func (s *EntitlementService) checkLicensed(ctx context.Context, licenseKey string) (*Decision, error) {
	status, err := s.validator.Validate(ctx, licenseKey)
	if err != nil {
		return nil, fmt.Errorf("check license entitlement: %w", err)
	}

	if !status.Found || !constants.IsPaidTier(status.Tier) {
		// Unknown keys and licenses whose product did not map to a tier
		// are never entitled, regardless of any validity flag.
		return &Decision{Reason: DenyInvalidLicense, Tier: constants.TierFree}, nil
	}
	if !status.IsValid {
		return &Decision{Reason: DenyLimitReached, Tier: status.Tier}, nil
	}

	d := &Decision{
		Allowed:    true,
		Tier:       status.Tier,
		LicenseKey: licenseKey,
	}
	if status.Tier == constants.TierLifetime {
		d.Remaining = constants.UnlimitedSentinel
	} else {
		// Reserve the slot for this request before it completes.
		d.Remaining = status.Remaining - 1
	}
	return d, nil
}

func (s *EntitlementService) checkFree(ctx context.Context, clientIP string) (*Decision, error) {
	count, err := s.repos.Usage.GetCount(ctx, clientIP)
	if err != nil {
		return nil, fmt.Errorf("check free entitlement: %w", err)
	}
	if count >= constants.FreeDailyLimit {
		return &Decision{Reason: DenyLimitReached, Tier: constants.TierFree}, nil
	}
	return &Decision{
		Allowed:   true,
		Tier:      constants.TierFree,
		Remaining: constants.FreeDailyLimit - int(count) - 1,
		ClientIP:  clientIP,
	}, nil
}

// Charge settles the counter reserved by Check after a successful
// generation, and returns the authoritative remaining quota. It must be
// called only after the generation collaborator succeeded.
func (s *EntitlementService) Charge(ctx context.Context, d *Decision) (int, error) {
	switch {
	case d.LicenseKey != "" && d.Tier == constants.TierLifetime:
		// The record keeps its lifetime count for support visibility;
		// the reported remaining stays at the sentinel.
		if _, err := s.repos.License.IncrementUsage(ctx, d.LicenseKey); err != nil {
			return constants.UnlimitedSentinel, fmt.Errorf("charge lifetime license: %w", err)
		}
		return constants.UnlimitedSentinel, nil

	case d.LicenseKey != "":
		record, err := s.repos.License.IncrementUsage(ctx, d.LicenseKey)
		if err != nil {
			return d.Remaining, fmt.Errorf("charge license: %w", err)
		}
		if record == nil {
			return d.Remaining, fmt.Errorf("charge license: license %s disappeared", d.LicenseKey)
		}
		remaining := constants.GetTierLimits(record.Tier).GenerationCap - record.GenerationsUsed
		if remaining < 0 {
			remaining = 0
		}
		return remaining, nil

	default:
		n, err := s.repos.Usage.Increment(ctx, d.ClientIP, false)
		if err != nil {
			return d.Remaining, fmt.Errorf("charge free usage: %w", err)
		}
		remaining := constants.FreeDailyLimit - int(n)
		if remaining < 0 {
			remaining = 0
		}
		return remaining, nil
	}
}

// TrackGeneration bumps the date-bucketed analytics counter without
// blocking or failing the request.
func (s *EntitlementService) TrackGeneration(ctx context.Context) {
	date := time.Now().UTC().Format("2006-01-02")
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.repos.Usage.TrackDailyGeneration(ctx, date); err != nil {
			s.logger.Warn("daily analytics write failed", "date", date, "error", err)
		}
	}()
}
