package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/bulletform/bulletform-api/internal/models"
	"github.com/bulletform/bulletform-api/internal/service"
)

// maxWebhookBody bounds inbound webhook payloads. Vendor payloads are a
// few KB; anything larger is hostile.
const maxWebhookBody = 64 * 1024

// WebhookHandler receives purchase events from the payment vendor. It is
// a plain http.Handler rather than a typed operation because signature
// verification needs the raw request bytes.
type WebhookHandler struct {
	licenseSvc *service.LicenseService
	secret     []byte
	logger     *slog.Logger
}

// NewWebhookHandler creates a webhook handler. secret is the shared HMAC
// signing secret configured at the vendor.
func NewWebhookHandler(licenseSvc *service.LicenseService, secret string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		licenseSvc: licenseSvc,
		secret:     []byte(secret),
		logger:     logger,
	}
}

// ServeHTTP verifies the payload signature, then dispatches by event
// name. The vendor retries non-2xx responses, so anything already
// handled (replays, unknown events, unpaid orders) is acknowledged.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		h.logger.Warn("webhook body read failed", "error", err)
		writeWebhookError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	if !h.verifySignature(body, r.Header.Get("X-Signature")) {
		h.logger.Warn("webhook signature verification failed", "remote_addr", r.RemoteAddr)
		writeWebhookError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var event models.PurchaseEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Warn("webhook payload is not valid JSON", "error", err)
		writeWebhookError(w, http.StatusBadRequest, "malformed payload")
		return
	}

	switch event.Meta.EventName {
	case models.EventOrderCreated:
		if event.Data.Attributes.Status != models.OrderStatusPaid {
			h.logger.Info("ignoring unpaid order event",
				"order_id", event.OrderID(),
				"status", event.Data.Attributes.Status,
			)
			break
		}
		if _, err := h.licenseSvc.CreateFromOrder(r.Context(), &event); err != nil {
			h.logger.Error("webhook license creation failed",
				"order_id", event.OrderID(),
				"error", err,
			)
			writeWebhookError(w, http.StatusInternalServerError, "processing failed")
			return
		}

	case models.EventOrderRefunded:
		// Licenses are not revoked on refund; flagged for manual review.
		h.logger.Info("order refunded", "order_id", event.OrderID())

	default:
		h.logger.Info("ignoring unhandled webhook event", "event", event.Meta.EventName)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]bool{"received": true})
}

// verifySignature checks the hex-encoded HMAC-SHA256 of the raw body in
// constant time.
func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	return hmac.Equal(provided, mac.Sum(nil))
}

func writeWebhookError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
