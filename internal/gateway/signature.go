// Package gateway verifies callbacks from the online payment gateway.
package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrInvalidSignature indicates the gateway signature does not match the payload.
var ErrInvalidSignature = errors.New("transaction validation failed")

// Verifier checks HMAC-SHA256 signatures over "orderID|paymentID".
type Verifier struct {
	secret []byte
}

// NewVerifier constructs a verifier. Surrounding quotes and whitespace are stripped
// from the secret. An empty secret disables verification.
func NewVerifier(secret string) *Verifier {
	cleaned := strings.TrimSpace(strings.ReplaceAll(secret, `"`, ""))
	return &Verifier{secret: []byte(cleaned)}
}

// Enabled reports whether a secret is configured.
func (v *Verifier) Enabled() bool {
	return v != nil && len(v.secret) > 0
}

// Sign returns the hex signature the gateway would send for the pair.
func (v *Verifier) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks signature in constant time.
func (v *Verifier) Verify(orderID, paymentID, signature string) error {
	if !v.Enabled() {
		return nil
	}

	expected, err := hex.DecodeString(v.Sign(orderID, paymentID))
	if err != nil {
		return ErrInvalidSignature
	}
	given, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return ErrInvalidSignature
	}
	if !hmac.Equal(expected, given) {
		return ErrInvalidSignature
	}
	return nil
}
