// Package service contains the business logic layer: license lifecycle,
// entitlement decisions, and generation orchestration.
package service

import (
	"log/slog"

	"github.com/bulletform/bulletform-api/internal/config"
	"github.com/bulletform/bulletform-api/internal/repository"
)

// Services holds all service instances.
type Services struct {
	License     *LicenseService
	Entitlement *EntitlementService
	Generation  *GenerationService
}

// NewServices creates all service instances.
func NewServices(cfg *config.Config, repos *repository.Repositories, logger *slog.Logger) *Services {
	licenseSvc := NewLicenseService(repos, cfg.VariantTiers(), logger)
	entitlementSvc := NewEntitlementService(licenseSvc, repos, logger)

	generator := NewLLMClient(LLMClientConfig{
		BaseURL: cfg.LLMBaseURL,
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
	}, logger)
	generationSvc := NewGenerationService(entitlementSvc, generator, logger)

	return &Services{
		License:     licenseSvc,
		Entitlement: entitlementSvc,
		Generation:  generationSvc,
	}
}
