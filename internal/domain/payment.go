package domain

import (
	"context"

	"github.com/google/uuid"
)

// Payment-related domain errors.
var (
	ErrAlreadyPaid          = &Error{Code: ECONFLICT, Message: "Order is already paid"}
	ErrOrderCancelled       = &Error{Code: ECONFLICT, Message: "Order has been cancelled and cannot be paid"}
	ErrPaymentOrderMismatch = &Error{Code: EPAYMENT, Message: "Payment order reference does not match"}
	ErrSignatureInvalid     = &Error{Code: EPAYMENT, Message: "Payment signature verification failed"}
)

// PaymentOrder is what the client needs to hand the payment provider:
// an opaque provider-side order reference plus the amount to collect.
type PaymentOrder struct {
	ProviderOrderID string `json:"orderId"`
	AmountCents     int64  `json:"amountCents"`
	Currency        string `json:"currency"`
	KeyID           string `json:"key"`
}

// VerifyPaymentParams contains the provider callback values the client
// submits after completing payment externally.
type VerifyPaymentParams struct {
	OrderID           uuid.UUID
	ProviderPaymentID string
	ProviderOrderID   string
	Signature         string
}

// PaymentService issues provider payment references and confirms payments.
type PaymentService interface {
	// CreatePaymentOrder issues a provider order reference for an unpaid
	// order owned by userID and stores it on the order. Calling it again
	// before payment overwrites the previous reference; the old one is
	// simply abandoned.
	CreatePaymentOrder(ctx context.Context, userID, orderID uuid.UUID) (*PaymentOrder, error)

	// VerifyPayment checks the provider signature over the payment,
	// marks the order paid, advances it to Confirmed, and fires a
	// status-change notification. Returns the confirmed order. A second
	// verification of an already paid order fails with ErrAlreadyPaid.
	VerifyPayment(ctx context.Context, params VerifyPaymentParams) (*Order, error)
}
