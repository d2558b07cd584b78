package shipping

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func signSHA256(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func signSHA1(payload []byte, secret string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"trackingNumber":"1Z999AA10123456784"}`)
	secret := "top-secret"

	for _, provider := range []string{"fedex", "ups", "dhl", "somenewcarrier"} {
		sig := signSHA256(payload, secret)
		if !VerifyWebhookSignature(provider, payload, sig, secret) {
			t.Fatalf("expected sha256 signature to validate for %s", provider)
		}
	}

	uspsSig := signSHA1(payload, secret)
	if !VerifyWebhookSignature("usps", payload, uspsSig, secret) {
		t.Fatalf("expected sha1 signature to validate for usps")
	}
	if VerifyWebhookSignature("usps", payload, signSHA256(payload, secret), secret) {
		t.Fatalf("usps must not accept sha256 signatures")
	}
}

func TestVerifyWebhookSignature_TamperedPayload(t *testing.T) {
	payload := []byte(`{"trackingNumber":"TN1"}`)
	secret := "top-secret"
	sig := signSHA256(payload, secret)

	tampered := append([]byte(nil), payload...)
	tampered[len(tampered)-2] ^= 0x01

	if VerifyWebhookSignature("fedex", tampered, sig, secret) {
		t.Fatalf("expected tampered payload to fail verification")
	}
}

func TestVerifyWebhookSignature_TamperedSignature(t *testing.T) {
	payload := []byte(`{"trackingNumber":"TN1"}`)
	secret := "top-secret"
	sig := signSHA256(payload, secret)

	flipped := "0" + sig[1:]
	if flipped == sig {
		flipped = "1" + sig[1:]
	}
	if VerifyWebhookSignature("fedex", payload, flipped, secret) {
		t.Fatalf("expected altered signature to fail verification")
	}
}

func TestVerifyWebhookSignature_MissingMaterial(t *testing.T) {
	payload := []byte(`{}`)
	sig := signSHA256(payload, "secret")

	if VerifyWebhookSignature("fedex", payload, "", "secret") {
		t.Fatalf("missing signature must not validate")
	}
	if VerifyWebhookSignature("fedex", payload, sig, "") {
		t.Fatalf("missing secret must not validate")
	}
	if VerifyWebhookSignature("fedex", payload, "   ", "   ") {
		t.Fatalf("whitespace-only material must not validate")
	}
}

func TestVerifyWebhookSignature_PrefixedAndNonHex(t *testing.T) {
	payload := []byte(`{"a":1}`)
	secret := "secret"
	sig := signSHA256(payload, secret)

	if !VerifyWebhookSignature("fedex", payload, "sha256="+sig, secret) {
		t.Fatalf("expected sha256= prefixed signature to validate")
	}
	if VerifyWebhookSignature("fedex", payload, "not-hex-at-all", secret) {
		t.Fatalf("non-hex signature must not validate")
	}
}
