// Package webhook handles inbound change notifications: HMAC signature
// verification, payload shapes, and the per-project debounce/cooldown
// coordinator that keeps the engine's own writes from triggering a
// recomputation cascade.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/alexanderramin/autoplan/internal/domain"
)

// SignatureHeader carries the sender's HMAC over the raw request body.
const SignatureHeader = "X-Hub-Signature-256"

const signaturePrefix = "sha256="

// Verify checks the sha256= signature over the raw body. The comparison is
// constant-time; any failure is an AuthError and the caller answers 401.
func Verify(secret, body []byte, signature string) error {
	if len(secret) == 0 {
		return &domain.AuthError{Msg: "webhook secret not configured"}
	}
	if !strings.HasPrefix(signature, signaturePrefix) {
		return &domain.AuthError{Msg: "missing or malformed webhook signature"}
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))
	got := strings.TrimPrefix(signature, signaturePrefix)

	if !hmac.Equal([]byte(want), []byte(got)) {
		return &domain.AuthError{Msg: "webhook signature mismatch"}
	}
	return nil
}

// Sign produces the sha256=-prefixed signature for a body; used by tests
// and the local delivery tool.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}
