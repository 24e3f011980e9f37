package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifyWebhookSignature checks an HMAC-SHA256 hex signature over the raw
// payload, as sent by the payment provider in its signature header.
func VerifyWebhookSignature(payload []byte, signatureHeader, webhookSecret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(webhookSecret)
	if sig == "" || secret == "" {
		return false
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), decodedSig)
}
