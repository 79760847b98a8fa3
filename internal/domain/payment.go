package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentOrder records a gateway order created for a pending purchase. It
// binds the gateway order ID to the event, buyer, quantity and amount so that
// verify-payment cannot be replayed against a different event or quantity.
// swagger:model PaymentOrder
type PaymentOrder struct {
	ID             string          `json:"id"`
	GatewayOrderID string          `json:"gateway_order_id"`
	EventID        string          `json:"event_id"`
	UserID         string          `json:"user_id"`
	Quantity       int             `json:"quantity"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	CreatedAt      time.Time       `json:"created_at"`
}

// PaymentOrderRepository defines storage for payment orders.
type PaymentOrderRepository interface {
	Create(ctx context.Context, order *PaymentOrder) error
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*PaymentOrder, error)
}

// GatewayOrder is the order handle returned by the payment gateway; the
// client uses it to open the checkout flow.
type GatewayOrder struct {
	ID       string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// PaymentGateway creates orders with the external payment provider.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*GatewayOrder, error)
}

// SignatureVerifier checks the gateway's payment confirmation signature.
// This is a local computation; it never contacts the gateway.
type SignatureVerifier interface {
	// Verify returns nil if signature matches the expected signature over
	// orderID and paymentID, ErrInvalidPaymentSignature otherwise.
	Verify(orderID, paymentID, signature string) error
}

// PaymentService begins the paid-ticket flow by creating a gateway order.
type PaymentService interface {
	CreateOrder(ctx context.Context, eventID, userID string, quantity int) (*GatewayOrder, error)
}
