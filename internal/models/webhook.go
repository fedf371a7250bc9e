package models

// Webhook event names sent by the payment vendor.
const (
	EventOrderCreated  = "order_created"
	EventOrderRefunded = "order_refunded"
)

// OrderStatusPaid is the only order status that triggers license
// creation.
const OrderStatusPaid = "paid"

// PurchaseEvent is the minimal validated shape of an inbound purchase
// webhook. It is consumed once and never persisted.
type PurchaseEvent struct {
	Meta struct {
		EventName string `json:"event_name"`
		// CustomData may carry a license key reference set at checkout.
		CustomData map[string]string `json:"custom_data,omitempty"`
	} `json:"meta"`
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Status         string `json:"status"`
			UserEmail      string `json:"user_email"`
			CreatedAt      string `json:"created_at"`
			FirstOrderItem struct {
				VariantID int64 `json:"variant_id"`
			} `json:"first_order_item"`
		} `json:"attributes"`
	} `json:"data"`
}

// OrderID returns the vendor order identifier.
func (e *PurchaseEvent) OrderID() string {
	return e.Data.ID
}
