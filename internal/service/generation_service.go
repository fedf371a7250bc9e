package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/bulletform/bulletform-api/internal/constants"
)

// GenerateRequest carries the caller's input for one generation.
type GenerateRequest struct {
	JobDescription string
	Experience     string
	LicenseKey     string
}

// GenerateResult is the successful outcome of a generation.
type GenerateResult struct {
	GenerationID string
	Bullets      []string
	Remaining    int
	Tier         string
}

// GenerationService orchestrates a generation request: entitlement
// check, text generation, then charge. The charge happens strictly after
// the collaborator succeeds, so a failed generation costs nothing.
type GenerationService struct {
	entitlement *EntitlementService
	generator   TextGenerator
	logger      *slog.Logger
}

// NewGenerationService creates a generation service.
func NewGenerationService(entitlement *EntitlementService, generator TextGenerator, logger *slog.Logger) *GenerationService {
	return &GenerationService{
		entitlement: entitlement,
		generator:   generator,
		logger:      logger,
	}
}

// Generate runs one end-to-end generation for the given client.
func (s *GenerationService) Generate(ctx context.Context, clientIP string, req GenerateRequest) (*GenerateResult, error) {
	if err := validateGenerateRequest(req); err != nil {
		return nil, err
	}

	decision, err := s.entitlement.Check(ctx, clientIP, req.LicenseKey)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		switch decision.Reason {
		case DenyInvalidLicense:
			return nil, ErrInvalidLicense
		default:
			return nil, ErrLimitReached
		}
	}

	generationID := ulid.Make().String()
	prompt := buildPrompt(req.JobDescription, req.Experience)

	content, err := s.generator.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error("text generation failed",
			"generation_id", generationID,
			"tier", decision.Tier,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	bullets := parseBullets(content)
	if len(bullets) == 0 {
		s.logger.Error("text generation returned no usable bullets",
			"generation_id", generationID,
		)
		return nil, fmt.Errorf("%w: empty output", ErrGenerationFailed)
	}

	// Charge only after success. A failed charge is an accepted
	// under-count: the response proceeds with the reserved remaining.
	remaining, err := s.entitlement.Charge(ctx, decision)
	if err != nil {
		s.logger.Error("usage charge failed after successful generation",
			"generation_id", generationID,
			"tier", decision.Tier,
			"error", err,
		)
		remaining = decision.Remaining
	}
	s.entitlement.TrackGeneration(ctx)

	return &GenerateResult{
		GenerationID: generationID,
		Bullets:      bullets,
		Remaining:    remaining,
		Tier:         decision.Tier,
	}, nil
}

func validateGenerateRequest(req GenerateRequest) error {
	jd := len(req.JobDescription)
	if jd < constants.JobDescriptionMinLength || jd > constants.JobDescriptionMaxLength {
		return fmt.Errorf("%w: jobDescription must be between %d and %d characters",
			ErrInvalidInput, constants.JobDescriptionMinLength, constants.JobDescriptionMaxLength)
	}
	exp := len(req.Experience)
	if exp < constants.ExperienceMinLength || exp > constants.ExperienceMaxLength {
		return fmt.Errorf("%w: experience must be between %d and %d characters",
			ErrInvalidInput, constants.ExperienceMinLength, constants.ExperienceMaxLength)
	}
	return nil
}

func buildPrompt(jobDescription, experience string) string {
	var b strings.Builder
	b.WriteString("Write strong, achievement-oriented resume bullet points tailored to the job description below. ")
	b.WriteString("Use the candidate's experience. Return one bullet per line, no numbering, at most ")
	fmt.Fprintf(&b, "%d bullets.\n\n", constants.MaxBullets)
	b.WriteString("Job description:\n")
	b.WriteString(jobDescription)
	b.WriteString("\n\nCandidate experience:\n")
	b.WriteString(experience)
	return b.String()
}

// parseBullets extracts bullet lines from unstructured model output.
// Leading list markers and numbering are stripped; blank lines are
// dropped; output is capped at MaxBullets.
func parseBullets(content string) []string {
	var bullets []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•")
		line = trimNumberPrefix(line)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		bullets = append(bullets, line)
		if len(bullets) == constants.MaxBullets {
			break
		}
	}
	return bullets
}

// trimNumberPrefix removes prefixes like "1." or "12)".
func trimNumberPrefix(line string) string {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return line[i+1:]
	}
	return line
}
