// Package webhook provides the authentication primitives for inbound
// payment webhooks: shared-secret HMAC signatures and replay protection.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign computes the HMAC-SHA256 of body under secret, as lowercase hex.
func Sign(body, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks signature against the HMAC of the exact raw body
// bytes. The comparison is constant-time. Callers must verify before any
// JSON parsing so parse errors never reach an unauthenticated sender.
func VerifySignature(body []byte, signature string, secret []byte) bool {
	expected := Sign(body, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
