// Package payment implements the Razorpay-style payment reference
// provider: it issues opaque payment-order identifiers and verifies the
// HMAC signature the provider attaches to completed payments. No network
// calls are made; the external charge happens entirely on the client.
package payment

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/shubhamkarande/PantryGo/internal/domain"
)

// Modes controlling signature enforcement.
const (
	// ModeTest accepts any signature. This mirrors the demo behaviour of
	// payment dashboards issuing test-mode keys without signed callbacks.
	ModeTest = "test"

	// ModeLive requires a valid HMAC signature on every verification.
	ModeLive = "live"
)

// Config holds provider credentials and the enforcement mode.
type Config struct {
	// KeyID is the public key identifier handed to clients.
	KeyID string

	// KeySecret is the shared secret used for HMAC signature checks.
	KeySecret string

	// Currency is the ISO 4217 code charged, e.g. "INR".
	Currency string

	// Mode is ModeTest or ModeLive.
	Mode string
}

// IsTestMode reports whether signature checks are skipped.
func (c Config) IsTestMode() bool {
	return c.Mode != ModeLive
}

// Provider issues payment-order references and verifies signatures.
type Provider struct {
	cfg    Config
	logger *slog.Logger
}

// NewProvider validates the config and creates a Provider.
func NewProvider(cfg Config, logger *slog.Logger) (*Provider, error) {
	if cfg.Mode != ModeTest && cfg.Mode != ModeLive {
		return nil, fmt.Errorf("invalid payment mode %q: must be %q or %q", cfg.Mode, ModeTest, ModeLive)
	}
	if cfg.Mode == ModeLive && cfg.KeySecret == "" {
		return nil, fmt.Errorf("payment key secret required in live mode")
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Provider{cfg: cfg, logger: logger}, nil
}

// KeyID returns the public key identifier for client-side checkout.
func (p *Provider) KeyID() string {
	return p.cfg.KeyID
}

// Currency returns the charge currency.
func (p *Provider) Currency() string {
	return p.cfg.Currency
}

// NewOrderReference issues an opaque provider-side payment-order id.
func (p *Provider) NewOrderReference() string {
	return "order_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// VerifySignature checks the HMAC-SHA256 signature over
// "orderRef|paymentID". In test mode the check is skipped and a warning
// is logged, preserving the unsigned demo flow; live mode fails with
// domain.ErrSignatureInvalid on any mismatch.
func (p *Provider) VerifySignature(orderRef, paymentID, signature string) error {
	if p.cfg.IsTestMode() {
		p.logger.Warn("payment signature check skipped in test mode",
			"provider_order_id", orderRef)
		return nil
	}

	if !ValidSignature(orderRef, paymentID, p.cfg.KeySecret, signature) {
		return domain.ErrSignatureInvalid
	}
	return nil
}
