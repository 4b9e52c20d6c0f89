package webhook

import (
	"strings"
	"testing"
)

func TestVerifySignature(t *testing.T) {
	secret := []byte("test-secret")
	body := []byte(`{"event":"payment.succeeded","order_id":1}`)

	sig := Sign(body, secret)
	if sig != strings.ToLower(sig) {
		t.Fatalf("expected lowercase hex signature, got %q", sig)
	}
	if !VerifySignature(body, sig, secret) {
		t.Fatal("expected valid signature to verify")
	}
}

func TestVerifySignatureRejects(t *testing.T) {
	secret := []byte("test-secret")
	body := []byte(`{"event":"payment.succeeded","order_id":1}`)
	sig := Sign(body, secret)

	cases := map[string]struct {
		body      []byte
		signature string
		secret    []byte
	}{
		"wrong secret":    {body, Sign(body, []byte("other-secret")), secret},
		"tampered body":   {[]byte(`{"event":"payment.succeeded","order_id":2}`), sig, secret},
		"empty signature": {body, "", secret},
		"garbage":         {body, "not-hex-at-all", secret},
		"uppercase hex":   {body, strings.ToUpper(sig), secret},
	}
	for name, c := range cases {
		if VerifySignature(c.body, c.signature, c.secret) {
			t.Errorf("%s: expected verification to fail", name)
		}
	}
}
