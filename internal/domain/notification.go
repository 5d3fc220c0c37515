package domain

import (
	"context"

	"github.com/google/uuid"
)

// Notifier is the outbound status-change sink. Delivery is fire and
// forget: a failed notification never rolls back the order mutation
// that triggered it.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, userID, orderID uuid.UUID, status OrderStatus) error
}

// StatusMessage returns the user-facing title and body for a status
// change notification.
func StatusMessage(status OrderStatus) (title, body string) {
	switch status {
	case OrderConfirmed:
		return "Order Confirmed!", "Your order has been confirmed and is being processed."
	case OrderPacked:
		return "Order Packed!", "Your order has been packed and is ready for pickup."
	case OrderOutForDelivery:
		return "On the Way!", "Your order is out for delivery. Get ready!"
	case OrderDelivered:
		return "Delivered!", "Your order has been delivered. Enjoy!"
	case OrderCancelled:
		return "Order Cancelled", "Your order has been cancelled."
	default:
		return "Order Update", "Your order status has been updated to " + string(status) + "."
	}
}
