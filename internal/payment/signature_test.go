package payment

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/shubhamkarande/PantryGo/internal/domain"
)

func TestSign_KnownVector(t *testing.T) {
	// Vector computed independently with openssl dgst -sha256 -hmac.
	got := Sign("order_1f2e3d4c5b6a79880102030405060708", "pay_ABC123xyz", "test_secret_key")
	want := "4f5c0fd7e8966aa99066b4594548014aa176a64dae5f4a389854f90a3c457d7a"
	if got != want {
		t.Errorf("Sign() = %s, want %s", got, want)
	}
}

func TestValidSignature(t *testing.T) {
	const (
		orderRef  = "order_abcdef0123456789"
		paymentID = "pay_test_42"
		secret    = "s3cret"
	)
	sig := Sign(orderRef, paymentID, secret)

	if !ValidSignature(orderRef, paymentID, secret, sig) {
		t.Error("valid signature rejected")
	}
	if !ValidSignature(orderRef, paymentID, secret, strings.ToUpper(sig)) {
		t.Error("uppercase hex signature rejected")
	}
	if ValidSignature(orderRef, paymentID, secret, sig[:len(sig)-1]+"0") {
		t.Error("tampered signature accepted")
	}
	if ValidSignature(orderRef, "pay_other", secret, sig) {
		t.Error("signature accepted for different payment id")
	}
	if ValidSignature(orderRef, paymentID, "wrong", sig) {
		t.Error("signature accepted under wrong secret")
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProvider_VerifySignature_Live(t *testing.T) {
	p, err := NewProvider(Config{KeyID: "rzp_live_x", KeySecret: "s3cret", Mode: ModeLive}, testLogger())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	sig := Sign("order_ref", "pay_1", "s3cret")
	if err := p.VerifySignature("order_ref", "pay_1", sig); err != nil {
		t.Errorf("valid signature rejected: %v", err)
	}

	err = p.VerifySignature("order_ref", "pay_1", "deadbeef")
	if !domain.IsCode(err, domain.EPAYMENT) {
		t.Errorf("invalid signature: got %v, want payment error", err)
	}
}

func TestProvider_VerifySignature_TestModeSkips(t *testing.T) {
	p, err := NewProvider(Config{KeyID: "rzp_test_x", Mode: ModeTest}, testLogger())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	if err := p.VerifySignature("order_ref", "pay_1", "garbage"); err != nil {
		t.Errorf("test mode should skip signature check, got %v", err)
	}
}

func TestNewProvider_Validation(t *testing.T) {
	if _, err := NewProvider(Config{Mode: "sandbox"}, testLogger()); err == nil {
		t.Error("expected error for unknown mode")
	}
	if _, err := NewProvider(Config{Mode: ModeLive}, testLogger()); err == nil {
		t.Error("expected error for live mode without secret")
	}

	p, err := NewProvider(Config{KeyID: "k", Mode: ModeTest}, testLogger())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.Currency() != "INR" {
		t.Errorf("default currency = %q, want INR", p.Currency())
	}
}

func TestNewOrderReference(t *testing.T) {
	p, _ := NewProvider(Config{KeyID: "k", Mode: ModeTest}, testLogger())

	ref := p.NewOrderReference()
	if !strings.HasPrefix(ref, "order_") {
		t.Errorf("reference %q missing order_ prefix", ref)
	}
	if len(ref) != len("order_")+32 {
		t.Errorf("reference %q has unexpected length %d", ref, len(ref))
	}
	if ref == p.NewOrderReference() {
		t.Error("references should be unique")
	}
}
