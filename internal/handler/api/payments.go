package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/shubhamkarande/PantryGo/internal/domain"
	"github.com/shubhamkarande/PantryGo/internal/middleware"
)

// PaymentHandler serves the payment confirmation flow.
type PaymentHandler struct {
	payments domain.PaymentService
}

// NewPaymentHandler creates a payment handler.
func NewPaymentHandler(payments domain.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type verifyPaymentRequest struct {
	OrderID           uuid.UUID `json:"orderId" validate:"required"`
	ProviderPaymentID string    `json:"razorpayPaymentId" validate:"required"`
	ProviderOrderID   string    `json:"razorpayOrderId" validate:"required"`
	Signature         string    `json:"razorpaySignature" validate:"required"`
}

// paymentOrderResponse augments the checkout parameters with the
// amount formatted as a decimal string.
type paymentOrderResponse struct {
	domain.PaymentOrder
	Amount string `json:"amount"`
}

// CreateOrder handles POST /api/orders/{id}/payment. Returns the
// provider checkout parameters for the client SDK.
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	orderID, err := pathID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	po, err := h.payments.CreatePaymentOrder(r.Context(), user.ID, orderID)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, paymentOrderResponse{
		PaymentOrder: *po,
		Amount:       formatCents(po.AmountCents),
	})
}

// Verify handles POST /api/payments/verify. On success the order is
// marked paid and moves to confirmed.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	order, err := h.payments.VerifyPayment(r.Context(), domain.VerifyPaymentParams{
		OrderID:           req.OrderID,
		ProviderPaymentID: req.ProviderPaymentID,
		ProviderOrderID:   req.ProviderOrderID,
		Signature:         req.Signature,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toOrderResponse(*order))
}
