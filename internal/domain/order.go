package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Order-related domain errors.
var (
	ErrOrderNotFound       = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrEmptyOrder          = &Error{Code: EINVALID, Message: "Order must contain at least one item"}
	ErrInvalidQuantity     = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
	ErrInsufficientStock   = &Error{Code: ECONFLICT, Message: "Insufficient stock for one or more items"}
	ErrInvalidTransition   = &Error{Code: ECONFLICT, Message: "Order status transition not allowed"}
	ErrNotADeliveryPartner = &Error{Code: ECONFLICT, Message: "User is not a delivery partner"}
	ErrUnknownStatus       = &Error{Code: EINVALID, Message: "Unknown order status"}
)

// OrderStatus is the state of an order in its delivery lifecycle.
type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPacked         OrderStatus = "packed"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

// orderTransitions is the forward-only transition table. Delivered and
// Cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:        {OrderConfirmed, OrderCancelled},
	OrderConfirmed:      {OrderPacked, OrderCancelled},
	OrderPacked:         {OrderOutForDelivery, OrderCancelled},
	OrderOutForDelivery: {OrderDelivered},
}

// ParseOrderStatus converts a wire value to an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.Valid() {
		return "", ErrUnknownStatus
	}
	return status, nil
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderPacked, OrderOutForDelivery, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is a placed order. TotalCents is the sum of its items at the
// prices captured when the order was created; it is never recomputed.
// Orders are never deleted.
type Order struct {
	ID                uuid.UUID   `json:"id"`
	UserID            uuid.UUID   `json:"userId"`
	AddressID         *uuid.UUID  `json:"addressId,omitempty"`
	Status            OrderStatus `json:"status"`
	TotalCents        int64       `json:"totalCents"`
	PaymentID         string      `json:"paymentId,omitempty"`
	ProviderOrderID   string      `json:"-"`
	IsPaid            bool        `json:"isPaid"`
	DeliveryPartnerID *uuid.UUID  `json:"deliveryPartnerId,omitempty"`
	Items             []OrderItem `json:"items"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// OrderItem is one product+quantity line within an order, priced at the
// moment the order was created. Items are immutable after creation.
type OrderItem struct {
	ID             uuid.UUID `json:"id"`
	OrderID        uuid.UUID `json:"-"`
	ProductID      uuid.UUID `json:"productId"`
	ProductName    string    `json:"productName"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
}

// OrderLine is one requested product+quantity pairing.
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int32
}

// CreateOrderParams contains parameters for placing an order.
type CreateOrderParams struct {
	UserID    uuid.UUID
	AddressID uuid.UUID
	Lines     []OrderLine
}

// OrderFilter narrows an order listing. Nil fields are ignored.
type OrderFilter struct {
	UserID            *uuid.UUID
	DeliveryPartnerID *uuid.UUID
	Status            *OrderStatus
	Page              int
	PageSize          int
}

// OrderService drives the order workflow: placement, status transitions,
// and delivery assignment.
type OrderService interface {
	// CreateOrder validates the address and every requested line, computes
	// the total at current catalog prices, decrements stock, and persists
	// the order with its items as one atomic unit. The order starts
	// Pending and unpaid. The whole order is rejected if any line is
	// invalid; no partial fulfillment.
	CreateOrder(ctx context.Context, params CreateOrderParams) (*Order, error)

	// GetOrder retrieves an order with its items.
	GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error)

	// ListOrders returns orders matching the filter, newest first.
	ListOrders(ctx context.Context, filter OrderFilter) (*Page[Order], error)

	// UpdateOrderStatus advances an order along the transition table.
	// Illegal transitions fail with ErrInvalidTransition. On success a
	// status-change notification is fired (best effort).
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status OrderStatus) (*Order, error)

	// AssignDeliveryPartner attaches a delivery partner to an order.
	// The target user must hold the delivery role.
	AssignDeliveryPartner(ctx context.Context, orderID, partnerID uuid.UUID) (*Order, error)
}
