package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubhamkarande/PantryGo/internal/domain"
	"github.com/shubhamkarande/PantryGo/internal/payment"
)

// mockPaymentStore implements PaymentStore with overridable functions.
type mockPaymentStore struct {
	GetOrderFunc           func(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	SetProviderOrderIDFunc func(ctx context.Context, orderID uuid.UUID, ref string) (bool, error)
	MarkOrderPaidFunc      func(ctx context.Context, orderID uuid.UUID, paymentID string) (bool, error)
}

func (m *mockPaymentStore) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, id)
	}
	return nil, domain.ErrOrderNotFound
}

func (m *mockPaymentStore) SetProviderOrderID(ctx context.Context, orderID uuid.UUID, ref string) (bool, error) {
	if m.SetProviderOrderIDFunc != nil {
		return m.SetProviderOrderIDFunc(ctx, orderID, ref)
	}
	return true, nil
}

func (m *mockPaymentStore) MarkOrderPaid(ctx context.Context, orderID uuid.UUID, paymentID string) (bool, error) {
	if m.MarkOrderPaidFunc != nil {
		return m.MarkOrderPaidFunc(ctx, orderID, paymentID)
	}
	return true, nil
}

func testProvider(t *testing.T, mode string) *payment.Provider {
	t.Helper()
	p, err := payment.NewProvider(payment.Config{
		KeyID:     "rzp_test_key",
		KeySecret: "test_secret",
		Currency:  "INR",
		Mode:      mode,
	}, discardLogger())
	require.NoError(t, err)
	return p
}

func newTestPaymentService(t *testing.T, store PaymentStore, provider *payment.Provider, notifier domain.Notifier) domain.PaymentService {
	t.Helper()
	return NewPaymentService(store, provider, notifier, nil, discardLogger())
}

func TestCreatePaymentOrder_Success(t *testing.T) {
	store := &mockPaymentStore{}
	store.GetOrderFunc = func(_ context.Context, _ uuid.UUID) (*domain.Order, error) {
		return makeTestOrder(domain.OrderPending), nil
	}

	var storedRef string
	store.SetProviderOrderIDFunc = func(_ context.Context, _ uuid.UUID, ref string) (bool, error) {
		storedRef = ref
		return true, nil
	}

	svc := newTestPaymentService(t, store, testProvider(t, payment.ModeTest), &mockNotifier{})

	po, err := svc.CreatePaymentOrder(context.Background(), testUserID, testOrderID)
	require.NoError(t, err)

	assert.Equal(t, storedRef, po.ProviderOrderID)
	assert.True(t, strings.HasPrefix(po.ProviderOrderID, "order_"))
	assert.Equal(t, int64(17000), po.AmountCents)
	assert.Equal(t, "INR", po.Currency)
	assert.Equal(t, "rzp_test_key", po.KeyID)
}

func TestCreatePaymentOrder_OtherUsersOrderReportsNotFound(t *testing.T) {
	store := &mockPaymentStore{}
	store.GetOrderFunc = func(_ context.Context, _ uuid.UUID) (*domain.Order, error) {
		return makeTestOrder(domain.OrderPending), nil
	}
	svc := newTestPaymentService(t, store, testProvider(t, payment.ModeTest), &mockNotifier{})

	_, err := svc.CreatePaymentOrder(context.Background(), testOtherUser, testOrderID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestCreatePaymentOrder_AlreadyPaid(t *testing.T) {
	store := &mockPaymentStore{}
	store.GetOrderFunc = func(_ context.Context, _ uuid.UUID) (*domain.Order, error) {
		order := makeTestOrder(domain.OrderConfirmed)
		order.IsPaid = true
		return order, nil
	}
	svc := newTestPaymentService(t, store, testProvider(t, payment.ModeTest), &mockNotifier{})

	_, err := svc.CreatePaymentOrder(context.Background(), testUserID, testOrderID)
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
}

func TestCreatePaymentOrder_CancelledOrder(t *testing.T) {
	store := &mockPaymentStore{}
	store.GetOrderFunc = func(_ context.Context, _ uuid.UUID) (*domain.Order, error) {
		return makeTestOrder(domain.OrderCancelled), nil
	}
	store.SetProviderOrderIDFunc = func(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
		t.Error("no payment order may be issued for a cancelled order")
		return false, nil
	}
	svc := newTestPaymentService(t, store, testProvider(t, payment.ModeTest), &mockNotifier{})

	_, err := svc.CreatePaymentOrder(context.Background(), testUserID, testOrderID)
	assert.ErrorIs(t, err, domain.ErrOrderCancelled)
}

func TestCreatePaymentOrder_CancelledBetweenReadAndWrite(t *testing.T) {
	var reads int
	store := &mockPaymentStore{}
	store.GetOrderFunc = func(_ context.Context, _ uuid.UUID) (*domain.Order, error) {
		reads++
		if reads == 1 {
			return makeTestOrder(domain.OrderPending), nil
		}
		return makeTestOrder(domain.OrderCancelled), nil
	}
	// The conditional write sees the cancellation and touches no row.
	store.SetProviderOrderIDFunc = func(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
		return false, nil
	}
	svc := newTestPaymentService(t, store, testProvider(t, payment.ModeTest), &mockNotifier{})

	_, err := svc.CreatePaymentOrder(context.Background(), testUserID, testOrderID)
	assert.ErrorIs(t, err, domain.ErrOrderCancelled)
}

func TestVerifyPayment_Success(t *testing.T) {
	ref := "order_" + strings.Repeat("a", 32)
	sig := payment.Sign(ref, "pay_123", "test_secret")

	store := &mockPaymentStore{}
	store.GetOrderFunc = func(_ context.Context, _ uuid.UUID) (*domain.Order, error) {
		order := makeTestOrder(domain.OrderPending)
		order.ProviderOrderID = ref
		if order.IsPaid {
			order.Status = domain.OrderConfirmed
		}
		return order, nil
	}

	var markedPayment string
	store.MarkOrderPaidFunc = func(_ context.Context, _ uuid.UUID, paymentID string) (bool, error) {
		markedPayment = paymentID
		return true, nil
	}

	notifier := &mockNotifier{}
	svc := newTestPaymentService(t, store, testProvider(t, payment.ModeLive), notifier)

	order, err := svc.VerifyPayment(context.Background(), domain.VerifyPaymentParams{
		OrderID:           testOrderID,
		ProviderPaymentID: "pay_123",
		ProviderOrderID:   ref,
		Signature:         sig,
	})
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, testOrderID, order.ID)

	assert.Equal(t, "pay_123", markedPayment)
	require.Len(t, notifier.notified(), 1)
	assert.Equal(t, domain.OrderConfirmed, notifier.notified()[0])
}

func TestVerifyPayment_OrderMismatch(t *testing.T) {
	store := &mockPaymentStore{}
	store.GetOrderFunc = func(_ context.Context, _ uuid.UUID) (*domain.Order, error) {
		order := makeTestOrder(domain.OrderPending)
		order.ProviderOrderID = "order_expected"
		return order, nil
	}
	svc := newTestPaymentService(t, store, testProvider(t, payment.ModeTest), &mockNotifier{})

	_, err := svc.VerifyPayment(context.Background(), domain.VerifyPaymentParams{
		OrderID:           testOrderID,
		ProviderPaymentID: "pay_123",
		ProviderOrderID:   "order_other",
		Signature:         "whatever",
	})
	assert.ErrorIs(t, err, domain.ErrPaymentOrderMismatch)
}

func TestVerifyPayment_NoPaymentOrderCreated(t *testing.T) {
	store := &mockPaymentStore{}
	store.GetOrderFunc = func(_ context.Context, _ uuid.UUID) (*domain.Order, error) {
		return makeTestOrder(domain.OrderPending), nil // no provider order id
	}
	svc := newTestPaymentService(t, store, testProvider(t, payment.ModeTest), &mockNotifier{})

	_, err := svc.VerifyPayment(context.Background(), domain.VerifyPaymentParams{
		OrderID:           testOrderID,
		ProviderPaymentID: "pay_123",
		ProviderOrderID:   "order_x",
		Signature:         "sig",
	})
	assert.ErrorIs(t, err, domain.ErrPaymentOrderMismatch)
}

func TestVerifyPayment_BadSignatureLiveMode(t *testing.T) {
	store := &mockPaymentStore{}
	store.GetOrderFunc = func(_ context.Context, _ uuid.UUID) (*domain.Order, error) {
		order := makeTestOrder(domain.OrderPending)
		order.ProviderOrderID = "order_ref"
		return order, nil
	}
	store.MarkOrderPaidFunc = func(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
		t.Error("order must not be marked paid on a bad signature")
		return false, nil
	}
	svc := newTestPaymentService(t, store, testProvider(t, payment.ModeLive), &mockNotifier{})

	_, err := svc.VerifyPayment(context.Background(), domain.VerifyPaymentParams{
		OrderID:           testOrderID,
		ProviderPaymentID: "pay_123",
		ProviderOrderID:   "order_ref",
		Signature:         "deadbeef",
	})
	assert.ErrorIs(t, err, domain.ErrSignatureInvalid)
}

func TestVerifyPayment_BadSignatureTestModeAccepted(t *testing.T) {
	store := &mockPaymentStore{}
	store.GetOrderFunc = func(_ context.Context, _ uuid.UUID) (*domain.Order, error) {
		order := makeTestOrder(domain.OrderPending)
		order.ProviderOrderID = "order_ref"
		return order, nil
	}
	svc := newTestPaymentService(t, store, testProvider(t, payment.ModeTest), &mockNotifier{})

	_, err := svc.VerifyPayment(context.Background(), domain.VerifyPaymentParams{
		OrderID:           testOrderID,
		ProviderPaymentID: "pay_123",
		ProviderOrderID:   "order_ref",
		Signature:         "not-a-signature",
	})
	assert.NoError(t, err)
}

// A cancelled order must never come back as confirmed, even with a
// valid signature.
func TestVerifyPayment_CancelledOrder(t *testing.T) {
	ref := "order_" + strings.Repeat("b", 32)
	sig := payment.Sign(ref, "pay_123", "test_secret")

	store := &mockPaymentStore{}
	store.GetOrderFunc = func(_ context.Context, _ uuid.UUID) (*domain.Order, error) {
		order := makeTestOrder(domain.OrderCancelled)
		order.ProviderOrderID = ref
		return order, nil
	}
	store.MarkOrderPaidFunc = func(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
		t.Error("a cancelled order must not be marked paid")
		return false, nil
	}
	notifier := &mockNotifier{}
	svc := newTestPaymentService(t, store, testProvider(t, payment.ModeLive), notifier)

	_, err := svc.VerifyPayment(context.Background(), domain.VerifyPaymentParams{
		OrderID:           testOrderID,
		ProviderPaymentID: "pay_123",
		ProviderOrderID:   ref,
		Signature:         sig,
	})
	assert.ErrorIs(t, err, domain.ErrOrderCancelled)
	assert.Empty(t, notifier.notified())
}

func TestVerifyPayment_CancelledBetweenReadAndMark(t *testing.T) {
	var reads int
	store := &mockPaymentStore{}
	store.GetOrderFunc = func(_ context.Context, _ uuid.UUID) (*domain.Order, error) {
		reads++
		status := domain.OrderPending
		if reads > 1 {
			status = domain.OrderCancelled
		}
		order := makeTestOrder(status)
		order.ProviderOrderID = "order_ref"
		return order, nil
	}
	store.MarkOrderPaidFunc = func(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
		return false, nil // row no longer pending
	}
	notifier := &mockNotifier{}
	svc := newTestPaymentService(t, store, testProvider(t, payment.ModeTest), notifier)

	_, err := svc.VerifyPayment(context.Background(), domain.VerifyPaymentParams{
		OrderID:           testOrderID,
		ProviderPaymentID: "pay_123",
		ProviderOrderID:   "order_ref",
		Signature:         "sig",
	})
	assert.ErrorIs(t, err, domain.ErrOrderCancelled)
	assert.Empty(t, notifier.notified())
}

func TestVerifyPayment_ReplayReportsAlreadyPaid(t *testing.T) {
	store := &mockPaymentStore{}
	store.GetOrderFunc = func(_ context.Context, _ uuid.UUID) (*domain.Order, error) {
		order := makeTestOrder(domain.OrderConfirmed)
		order.ProviderOrderID = "order_ref"
		order.IsPaid = true
		return order, nil
	}
	// The conditional mark reports no rows touched.
	store.MarkOrderPaidFunc = func(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
		return false, nil
	}
	notifier := &mockNotifier{}
	svc := newTestPaymentService(t, store, testProvider(t, payment.ModeTest), notifier)

	_, err := svc.VerifyPayment(context.Background(), domain.VerifyPaymentParams{
		OrderID:           testOrderID,
		ProviderPaymentID: "pay_123",
		ProviderOrderID:   "order_ref",
		Signature:         "sig",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
	assert.Empty(t, notifier.notified(), "replay must not re-notify")
}
