// Package notify implements the outbound status-change sink. The NATS
// notifier publishes events for downstream push/email workers; the log
// notifier is the development fallback when no broker is configured.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/shubhamkarande/PantryGo/internal/domain"
)

// DefaultSubject is the NATS subject status-change events publish to.
const DefaultSubject = "pantrygo.orders.status"

// StatusEvent is the wire payload of a status-change notification.
type StatusEvent struct {
	UserID  uuid.UUID          `json:"userId"`
	OrderID uuid.UUID          `json:"orderId"`
	Status  domain.OrderStatus `json:"status"`
	Title   string             `json:"title"`
	Body    string             `json:"body"`
	SentAt  time.Time          `json:"sentAt"`
}

// NATSNotifier publishes status-change events to a NATS subject.
type NATSNotifier struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

// Compile-time check that NATSNotifier implements domain.Notifier.
var _ domain.Notifier = (*NATSNotifier)(nil)

// NewNATSNotifier connects to the given NATS URL.
func NewNATSNotifier(url, subject string, logger *slog.Logger) (*NATSNotifier, error) {
	if subject == "" {
		subject = DefaultSubject
	}

	conn, err := nats.Connect(url,
		nats.Name("pantrygo-notifier"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	return &NATSNotifier{conn: conn, subject: subject, logger: logger}, nil
}

// NotifyStatusChange publishes a status event. Publish is asynchronous
// on the NATS client side, which fits the fire-and-forget contract.
func (n *NATSNotifier) NotifyStatusChange(ctx context.Context, userID, orderID uuid.UUID, status domain.OrderStatus) error {
	title, body := domain.StatusMessage(status)

	payload, err := json.Marshal(StatusEvent{
		UserID:  userID,
		OrderID: orderID,
		Status:  status,
		Title:   title,
		Body:    body,
		SentAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}

	if err := n.conn.Publish(n.subject, payload); err != nil {
		return fmt.Errorf("publish status event: %w", err)
	}
	return nil
}

// Close drains the connection, flushing buffered publishes.
func (n *NATSNotifier) Close() {
	_ = n.conn.Drain()
}

// LogNotifier writes notifications to the log. Used when NATS is not
// configured, mirroring how unconfigured push delivery degrades to a
// log line.
type LogNotifier struct {
	logger *slog.Logger
}

var _ domain.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// NotifyStatusChange logs the notification instead of delivering it.
func (n *LogNotifier) NotifyStatusChange(ctx context.Context, userID, orderID uuid.UUID, status domain.OrderStatus) error {
	title, _ := domain.StatusMessage(status)
	n.logger.Info("status notification",
		"user_id", userID,
		"order_id", orderID,
		"status", status,
		"title", title,
	)
	return nil
}
