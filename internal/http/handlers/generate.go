package handlers

import (
	"context"
	"log/slog"

	"github.com/bulletform/bulletform-api/internal/http/mw"
	"github.com/bulletform/bulletform-api/internal/service"
)

// GenerateHandler handles the bullet generation endpoint.
type GenerateHandler struct {
	generationSvc *service.GenerationService
	logger        *slog.Logger
}

// NewGenerateHandler creates a new generate handler.
func NewGenerateHandler(generationSvc *service.GenerationService, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{
		generationSvc: generationSvc,
		logger:        logger,
	}
}

// GenerateInput represents a generation request. Field bounds are
// enforced by the service so violations map to the documented
// VALIDATION_ERROR shape.
type GenerateInput struct {
	Body struct {
		JobDescription string `json:"jobDescription,omitempty" doc:"Target job description (50-8000 characters)"`
		Experience     string `json:"experience,omitempty" doc:"Candidate experience to draw from (20-4000 characters)"`
		LicenseKey     string `json:"licenseKey,omitempty" doc:"Optional license key for paid quota"`
	}
}

// GenerateOutput represents a generation response.
type GenerateOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         struct {
		Bullets   []string `json:"bullets" doc:"Generated resume bullet points (1-10)"`
		Remaining int      `json:"remaining" doc:"Generations remaining on the charged counter (999 = unlimited)"`
		Tier      string   `json:"tier" enum:"free,basic,lifetime" doc:"Tier the request was metered against"`
	}
}

// Generate produces resume bullet points for a job description and
// candidate experience, metered against the caller's quota.
func (h *GenerateHandler) Generate(ctx context.Context, input *GenerateInput) (*GenerateOutput, error) {
	clientIP := mw.GetClientIP(ctx)

	result, err := h.generationSvc.Generate(ctx, clientIP, service.GenerateRequest{
		JobDescription: input.Body.JobDescription,
		Experience:     input.Body.Experience,
		LicenseKey:     input.Body.LicenseKey,
	})
	if err != nil {
		return nil, translateServiceError(ctx, h.logger, err)
	}

	out := &GenerateOutput{CacheControl: "no-store"}
	out.Body.Bullets = result.Bullets
	out.Body.Remaining = result.Remaining
	out.Body.Tier = result.Tier
	return out, nil
}
