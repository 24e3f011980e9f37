package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"event_id":"evt_1"}`)
	secret := "whsec_test"

	assert.True(t, VerifyWebhookSignature(payload, signPayload(payload, secret), secret))

	// uppercase hex is accepted
	upper := signPayload(payload, secret)
	assert.True(t, VerifyWebhookSignature(payload, "  "+upper+"  ", secret))
}

func TestVerifyWebhookSignatureRejects(t *testing.T) {
	payload := []byte(`{"event_id":"evt_1"}`)
	secret := "whsec_test"

	assert.False(t, VerifyWebhookSignature(payload, signPayload(payload, "other-secret"), secret))
	assert.False(t, VerifyWebhookSignature([]byte("tampered"), signPayload(payload, secret), secret))
	assert.False(t, VerifyWebhookSignature(payload, "", secret))
	assert.False(t, VerifyWebhookSignature(payload, signPayload(payload, secret), ""))
	assert.False(t, VerifyWebhookSignature(payload, "not-hex!!", secret))
}
