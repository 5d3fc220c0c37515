package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shubhamkarande/PantryGo/internal/domain"
	"github.com/shubhamkarande/PantryGo/internal/postgres"
	"github.com/shubhamkarande/PantryGo/internal/telemetry"
)

// OrderStore is the persistence surface the order workflow needs.
// *postgres.Store satisfies it; tests substitute mocks.
type OrderStore interface {
	GetAddress(ctx context.Context, id uuid.UUID) (*domain.Address, error)
	GetActiveProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Product, error)
	CreateOrder(ctx context.Context, params postgres.InsertOrderParams) (*domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) (bool, error)
	SetDeliveryPartner(ctx context.Context, orderID, partnerID uuid.UUID) (bool, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// orderService implements domain.OrderService.
type orderService struct {
	store    OrderStore
	notifier domain.Notifier
	metrics  *telemetry.BusinessMetrics
	logger   *slog.Logger
}

var _ domain.OrderService = (*orderService)(nil)

// NewOrderService creates the order workflow engine.
func NewOrderService(store OrderStore, notifier domain.Notifier, metrics *telemetry.BusinessMetrics, logger *slog.Logger) domain.OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &orderService{
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// CreateOrder places an order. Validation happens up front against a
// consistent read; the authoritative stock check is the conditional
// decrement inside the store transaction, so a concurrent order on the
// same product cannot oversell no matter how the reads interleave.
// The whole request is rejected if any line is invalid.
func (s *orderService) CreateOrder(ctx context.Context, params domain.CreateOrderParams) (*domain.Order, error) {
	if len(params.Lines) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	productIDs := make([]uuid.UUID, 0, len(params.Lines))
	seen := make(map[uuid.UUID]bool, len(params.Lines))
	for _, line := range params.Lines {
		if line.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if seen[line.ProductID] {
			return nil, domain.Invalid("order.create", "duplicate product in order")
		}
		seen[line.ProductID] = true
		productIDs = append(productIDs, line.ProductID)
	}

	addr, err := s.store.GetAddress(ctx, params.AddressID)
	if err != nil {
		s.countRejection(err)
		return nil, err
	}
	if addr.UserID != params.UserID {
		s.countRejection(domain.ErrAddressNotOwned)
		return nil, domain.ErrAddressNotOwned
	}

	products, err := s.store.GetActiveProducts(ctx, productIDs)
	if err != nil {
		return nil, domain.Internal(err, "order.create", "failed to load products")
	}

	var totalCents int64
	items := make([]postgres.OrderItemInsert, 0, len(params.Lines))
	for _, line := range params.Lines {
		product, ok := products[line.ProductID]
		if !ok {
			s.countRejection(domain.ErrProductUnavailable)
			return nil, domain.ErrProductUnavailable
		}
		if product.Stock < line.Quantity {
			s.countRejection(domain.ErrInsufficientStock)
			return nil, domain.ErrInsufficientStock
		}

		totalCents += product.PriceCents * int64(line.Quantity)
		items = append(items, postgres.OrderItemInsert{
			ProductID:      product.ID,
			ProductName:    product.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: product.PriceCents,
		})
	}

	order, err := s.store.CreateOrder(ctx, postgres.InsertOrderParams{
		UserID:     params.UserID,
		AddressID:  params.AddressID,
		TotalCents: totalCents,
		Items:      items,
	})
	if err != nil {
		s.countRejection(err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrdersCreated.Inc()
		s.metrics.OrderValue.Observe(float64(order.TotalCents))
		s.metrics.OrderItemCount.Observe(float64(len(order.Items)))
	}

	s.logger.Info("order placed",
		"order_id", order.ID,
		"user_id", order.UserID,
		"total_cents", order.TotalCents,
		"items", len(order.Items),
	)

	return order, nil
}

// GetOrder retrieves an order with its items.
func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return s.store.GetOrder(ctx, orderID)
}

// ListOrders returns orders matching the filter, newest first.
func (s *orderService) ListOrders(ctx context.Context, filter domain.OrderFilter) (*domain.Page[domain.Order], error) {
	filter.Page, filter.PageSize = domain.ClampPaging(filter.Page, filter.PageSize)

	orders, total, err := s.store.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &domain.Page[domain.Order]{
		Items:      orders,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	}, nil
}

// UpdateOrderStatus advances an order along the forward-only transition
// table and notifies the owner. The store update is conditional on the
// status the transition was validated against, so a racing transition
// loses cleanly instead of clobbering.
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrUnknownStatus
	}

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := s.store.UpdateOrderStatus(ctx, orderID, order.Status, status)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, domain.ErrInvalidTransition
	}

	if s.metrics != nil {
		s.metrics.StatusTransition.WithLabelValues(string(order.Status), string(status)).Inc()
	}

	s.notify(ctx, order.UserID, orderID, status)

	return s.store.GetOrder(ctx, orderID)
}

// AssignDeliveryPartner attaches a delivery partner to an order.
func (s *orderService) AssignDeliveryPartner(ctx context.Context, orderID, partnerID uuid.UUID) (*domain.Order, error) {
	partner, err := s.store.GetUser(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if partner.Role != domain.RoleDelivery {
		return nil, domain.ErrNotADeliveryPartner
	}

	assigned, err := s.store.SetDeliveryPartner(ctx, orderID, partnerID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, domain.ErrOrderNotFound
	}

	return s.store.GetOrder(ctx, orderID)
}

// notify fires a status-change notification. Best effort: failure is
// logged and counted, never surfaced to the caller, and the triggering
// mutation stands. WithoutCancel keeps delivery alive past the request.
func (s *orderService) notify(ctx context.Context, userID, orderID uuid.UUID, status domain.OrderStatus) {
	err := s.notifier.NotifyStatusChange(context.WithoutCancel(ctx), userID, orderID, status)

	result := "success"
	if err != nil {
		result = "error"
		s.logger.Error("status notification failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
	}
	if s.metrics != nil {
		s.metrics.NotificationsSent.WithLabelValues(result).Inc()
	}
}

// countRejection maps a create-order failure to a metric label.
func (s *orderService) countRejection(err error) {
	if s.metrics == nil {
		return
	}

	var reason string
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		reason = "insufficient_stock"
	case errors.Is(err, domain.ErrProductUnavailable):
		reason = "product_unavailable"
	case errors.Is(err, domain.ErrAddressNotFound), errors.Is(err, domain.ErrAddressNotOwned):
		reason = "address_invalid"
	default:
		return
	}
	s.metrics.OrdersRejected.WithLabelValues(reason).Inc()
}
