package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level
// observability of the order and payment workflow.
type BusinessMetrics struct {
	// Orders
	OrdersCreated    prometheus.Counter
	OrdersRejected   *prometheus.CounterVec
	OrderValue       prometheus.Histogram
	OrderItemCount   prometheus.Histogram
	StatusTransition *prometheus.CounterVec

	// Payments
	PaymentOrdersCreated prometheus.Counter
	PaymentsVerified     *prometheus.CounterVec

	// Notifications
	NotificationsSent *prometheus.CounterVec

	// Auth & accounts
	Signups     prometheus.Counter
	Logins      prometheus.Counter
	LoginFailed prometheus.Counter
}

// NewBusinessMetrics creates and registers all business metrics.
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "pantrygo"
	}

	subsystem := "business"

	return &BusinessMetrics{
		OrdersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "orders_created_total",
			Help:      "Total orders successfully placed",
		}),
		OrdersRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "orders_rejected_total",
			Help:      "Total order placements rejected, by reason",
		}, []string{"reason"}), // reason: insufficient_stock, product_unavailable, address_invalid
		OrderValue: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_value_cents",
			Help:      "Order totals in minor currency units",
			Buckets:   prometheus.ExponentialBuckets(1000, 4, 8),
		}),
		OrderItemCount: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_item_count",
			Help:      "Number of line items per order",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		StatusTransition: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_status_transitions_total",
			Help:      "Order status transitions, by from/to state",
		}, []string{"from", "to"}),
		PaymentOrdersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "payment_orders_created_total",
			Help:      "Total provider payment orders issued",
		}),
		PaymentsVerified: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "payments_verified_total",
			Help:      "Payment verification attempts, by result",
		}, []string{"result"}), // result: success, signature_invalid, mismatch, already_paid
		NotificationsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notifications_sent_total",
			Help:      "Status-change notifications, by result",
		}, []string{"result"}),
		Signups: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "signups_total",
			Help:      "Total accounts registered",
		}),
		Logins: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "logins_total",
			Help:      "Total successful logins",
		}),
		LoginFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "login_failed_total",
			Help:      "Total failed login attempts",
		}),
	}
}
