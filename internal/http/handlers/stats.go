package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/bulletform/bulletform-api/internal/repository"
)

// StatsHandler serves the daily generation analytics counters.
type StatsHandler struct {
	usage  repository.UsageRepository
	logger *slog.Logger
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(usage repository.UsageRepository, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{usage: usage, logger: logger}
}

// DailyStatsInput represents a daily stats request.
type DailyStatsInput struct {
	Date string `path:"date" doc:"Date bucket in YYYY-MM-DD form"`
}

// DailyStatsOutput represents a daily stats response.
type DailyStatsOutput struct {
	Body struct {
		Date        string `json:"date"`
		Generations int64  `json:"generations" doc:"Successful generations recorded for the date"`
	}
}

// GetDailyStats returns the generation count for a date bucket. Dates
// outside the 90-day retention window report zero.
func (h *StatsHandler) GetDailyStats(ctx context.Context, input *DailyStatsInput) (*DailyStatsOutput, error) {
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return nil, NewValidationError("date must be in YYYY-MM-DD form")
	}

	count, err := h.usage.GetDailyGenerations(ctx, input.Date)
	if err != nil {
		return nil, translateServiceError(ctx, h.logger, err)
	}

	out := &DailyStatsOutput{}
	out.Body.Date = input.Date
	out.Body.Generations = count
	return out, nil
}
