package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shubhamkarande/PantryGo/internal/domain"
	"github.com/shubhamkarande/PantryGo/internal/payment"
	"github.com/shubhamkarande/PantryGo/internal/telemetry"
)

// PaymentStore is the persistence surface payment confirmation needs.
type PaymentStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	SetProviderOrderID(ctx context.Context, orderID uuid.UUID, ref string) (bool, error)
	MarkOrderPaid(ctx context.Context, orderID uuid.UUID, paymentID string) (bool, error)
}

type paymentService struct {
	store    PaymentStore
	provider *payment.Provider
	notifier domain.Notifier
	metrics  *telemetry.BusinessMetrics
	logger   *slog.Logger
}

var _ domain.PaymentService = (*paymentService)(nil)

// NewPaymentService creates the payment confirmation gateway.
func NewPaymentService(store PaymentStore, provider *payment.Provider, notifier domain.Notifier, metrics *telemetry.BusinessMetrics, logger *slog.Logger) domain.PaymentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &paymentService{
		store:    store,
		provider: provider,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// CreatePaymentOrder registers an order with the payment provider and
// returns the checkout parameters for the client. Orders belonging to
// other users report not-found rather than forbidden so order IDs are
// not probeable.
func (s *paymentService) CreatePaymentOrder(ctx context.Context, userID, orderID uuid.UUID) (*domain.PaymentOrder, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	if order.IsPaid {
		return nil, domain.ErrAlreadyPaid
	}
	if order.Status == domain.OrderCancelled {
		return nil, domain.ErrOrderCancelled
	}

	ref := s.provider.NewOrderReference()

	ok, err := s.store.SetProviderOrderID(ctx, orderID, ref)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Paid or cancelled between the read and the write.
		return nil, s.paymentClosedError(ctx, orderID)
	}

	if s.metrics != nil {
		s.metrics.PaymentOrdersCreated.Inc()
	}
	s.logger.Info("payment order created",
		"order_id", orderID,
		"provider_order_id", ref,
		"amount_cents", order.TotalCents,
	)

	return &domain.PaymentOrder{
		ProviderOrderID: ref,
		AmountCents:     order.TotalCents,
		Currency:        s.provider.Currency(),
		KeyID:           s.provider.KeyID(),
	}, nil
}

// VerifyPayment checks the provider callback signature and marks the
// order paid and confirmed. The mark is conditional on the order being
// unpaid and pending, so a replayed callback gets ErrAlreadyPaid and a
// callback for a cancelled order gets ErrOrderCancelled instead of
// resurrecting it as confirmed.
func (s *paymentService) VerifyPayment(ctx context.Context, params domain.VerifyPaymentParams) (*domain.Order, error) {
	order, err := s.store.GetOrder(ctx, params.OrderID)
	if err != nil {
		s.countVerify("order_not_found")
		return nil, err
	}

	if order.ProviderOrderID == "" || order.ProviderOrderID != params.ProviderOrderID {
		s.countVerify("order_mismatch")
		return nil, domain.ErrPaymentOrderMismatch
	}

	if order.Status == domain.OrderCancelled {
		s.countVerify("order_cancelled")
		return nil, domain.ErrOrderCancelled
	}

	if err := s.provider.VerifySignature(params.ProviderOrderID, params.ProviderPaymentID, params.Signature); err != nil {
		s.countVerify("bad_signature")
		return nil, err
	}

	marked, err := s.store.MarkOrderPaid(ctx, params.OrderID, params.ProviderPaymentID)
	if err != nil {
		s.countVerify("error")
		return nil, err
	}
	if !marked {
		s.countVerify("closed")
		return nil, s.paymentClosedError(ctx, params.OrderID)
	}

	s.countVerify("success")
	s.logger.Info("payment verified",
		"order_id", params.OrderID,
		"payment_id", params.ProviderPaymentID,
	)

	s.notifyConfirmed(ctx, order.UserID, params.OrderID)

	return s.store.GetOrder(ctx, params.OrderID)
}

// paymentClosedError reports why a conditional payment write matched no
// row: the order was paid or cancelled by a concurrent request.
func (s *paymentService) paymentClosedError(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status == domain.OrderCancelled {
		return domain.ErrOrderCancelled
	}
	return domain.ErrAlreadyPaid
}

func (s *paymentService) notifyConfirmed(ctx context.Context, userID, orderID uuid.UUID) {
	err := s.notifier.NotifyStatusChange(context.WithoutCancel(ctx), userID, orderID, domain.OrderConfirmed)

	result := "success"
	if err != nil {
		result = "error"
		s.logger.Error("payment notification failed", "order_id", orderID, "error", err)
	}
	if s.metrics != nil {
		s.metrics.NotificationsSent.WithLabelValues(result).Inc()
	}
}

func (s *paymentService) countVerify(result string) {
	if s.metrics != nil {
		s.metrics.PaymentsVerified.WithLabelValues(result).Inc()
	}
}
