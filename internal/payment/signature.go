package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sign computes the lower-hex HMAC-SHA256 signature the provider
// attaches to a completed payment: the keyed hash of
// "orderRef|paymentID" under the shared secret.
func Sign(orderRef, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidSignature reports whether signature matches the expected HMAC.
// The comparison is constant time; case differences in the hex encoding
// are tolerated.
func ValidSignature(orderRef, paymentID, secret, signature string) bool {
	expected := Sign(orderRef, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
