package shipping

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strings"

	"github.com/bluezpowerhouse/autoshop/app/models"
)

// VerifyWebhookSignature checks the HMAC signature a carrier sent with a
// webhook against the raw request body. FedEx, UPS, DHL and unknown carriers
// sign with HMAC-SHA256; USPS still uses HMAC-SHA1 (kept for compatibility,
// not to be extended to new carriers). Returns false when either the
// signature or the secret is missing.
func VerifyWebhookSignature(provider string, payload []byte, signatureHeader, webhookSecret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(webhookSecret)
	if sig == "" || secret == "" {
		return false
	}

	// Tolerate prefixed signatures like "sha256=..." (GitHub-style header).
	if i := strings.IndexByte(sig, '='); i >= 0 && !isHex(sig[:i]) {
		sig = sig[i+1:]
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	var hashFunc func() hash.Hash
	switch models.NormalizeProvider(provider) {
	case models.ProviderUSPS:
		hashFunc = sha1.New
	default:
		hashFunc = sha256.New
	}

	return verifyHMAC(payload, decodedSig, []byte(secret), hashFunc)
}

func verifyHMAC(payload, expectedSig, secret []byte, hashFunc func() hash.Hash) bool {
	mac := hmac.New(hashFunc, secret)
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), expectedSig)
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
