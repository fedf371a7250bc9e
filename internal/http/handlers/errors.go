package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bulletform/bulletform-api/internal/service"
)

// Error codes returned on the wire.
const (
	CodeValidationError  = "VALIDATION_ERROR"
	CodeLimitReached     = "LIMIT_REACHED"
	CodeInvalidLicense   = "INVALID_LICENSE"
	CodeRateLimited      = "RATE_LIMITED"
	CodeGenerationFailed = "GENERATION_FAILED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// APIError is the wire error shape: {error, code, message}. It
// implements huma.StatusError so it can be returned from handlers.
type APIError struct {
	Status  int    `json:"-"`
	Reason  string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) GetStatus() int {
	return e.Status
}

func newAPIError(status int, code, message string) *APIError {
	return &APIError{
		Status:  status,
		Reason:  http.StatusText(status),
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports malformed or out-of-bounds input.
func NewValidationError(message string) *APIError {
	return newAPIError(http.StatusBadRequest, CodeValidationError, message)
}

// NewLimitReachedError reports exhausted quota.
func NewLimitReachedError() *APIError {
	return newAPIError(http.StatusPaymentRequired, CodeLimitReached,
		"You have reached your generation limit. Purchase a license for more generations.")
}

// NewInvalidLicenseError reports an unusable license key.
func NewInvalidLicenseError() *APIError {
	return newAPIError(http.StatusPaymentRequired, CodeInvalidLicense,
		"This license key is not valid.")
}

// NewGenerationFailedError reports a text-generation failure. The caller
// was not charged and may retry.
func NewGenerationFailedError() *APIError {
	return newAPIError(http.StatusInternalServerError, CodeGenerationFailed,
		"Generation failed. You were not charged; please try again.")
}

// NewInternalError reports an unexpected failure, opaque to the user.
func NewInternalError() *APIError {
	return newAPIError(http.StatusInternalServerError, CodeInternalError,
		"Something went wrong. Please try again later.")
}

// translateServiceError maps service-layer errors to the wire taxonomy.
// Unrecognized errors are fully logged server-side and surfaced as an
// opaque internal error.
func translateServiceError(ctx context.Context, logger *slog.Logger, err error) *APIError {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return NewValidationError(err.Error())
	case errors.Is(err, service.ErrLimitReached):
		return NewLimitReachedError()
	case errors.Is(err, service.ErrInvalidLicense):
		return NewInvalidLicenseError()
	case errors.Is(err, service.ErrGenerationFailed):
		return NewGenerationFailedError()
	default:
		logger.ErrorContext(ctx, "unexpected error handling request", "error", err)
		return NewInternalError()
	}
}
