// Package handlers contains HTTP handlers for the API.
package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bulletform/bulletform-api/internal/kv"
	"github.com/bulletform/bulletform-api/internal/version"
)

// HealthCheckOutput represents health check response.
type HealthCheckOutput struct {
	Body struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
}

// HealthCheck returns the health status of the API.
func HealthCheck(ctx context.Context, input *struct{}) (*HealthCheckOutput, error) {
	out := &HealthCheckOutput{}
	out.Body.Status = "healthy"
	out.Body.Version = version.Get().Version
	return out, nil
}

// LivezOutput represents the liveness probe response.
type LivezOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

// Livez reports process liveness.
func Livez(ctx context.Context, input *struct{}) (*LivezOutput, error) {
	out := &LivezOutput{}
	out.Body.Status = "ok"
	return out, nil
}

// ReadyzHandler reports readiness, which requires the key-value store to
// be reachable.
type ReadyzHandler struct {
	store kv.Store
}

// NewReadyzHandler creates a readiness handler.
func NewReadyzHandler(store kv.Store) *ReadyzHandler {
	return &ReadyzHandler{store: store}
}

// ReadyzOutput represents the readiness probe response.
type ReadyzOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

// Readyz verifies the store connection.
func (h *ReadyzHandler) Readyz(ctx context.Context, input *struct{}) (*ReadyzOutput, error) {
	if h.store == nil {
		return nil, huma.Error503ServiceUnavailable("store not configured")
	}
	if err := h.store.Ping(ctx); err != nil {
		return nil, huma.Error503ServiceUnavailable("store unreachable")
	}
	out := &ReadyzOutput{}
	out.Body.Status = "ready"
	return out, nil
}
