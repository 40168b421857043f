package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"type":"payment.succeeded","intent_id":"pi_123","transaction_id":"tx_9"}`)

	if !VerifyWebhookSignature(body, sign(body, secret), secret) {
		t.Error("valid signature rejected")
	}
	if VerifyWebhookSignature(body, sign(body, "wrong-secret"), secret) {
		t.Error("signature from wrong secret accepted")
	}
	if VerifyWebhookSignature(append(body, '!'), sign(body, secret), secret) {
		t.Error("tampered body accepted")
	}
	if VerifyWebhookSignature(body, "", secret) {
		t.Error("empty signature accepted")
	}
}

func TestParseWebhook(t *testing.T) {
	event, err := ParseWebhook([]byte(`{"type":"payment.succeeded","intent_id":"pi_123","transaction_id":"tx_9"}`))
	if err != nil {
		t.Fatalf("ParseWebhook: %v", err)
	}
	if event.Type != EventPaymentSucceeded {
		t.Errorf("Type = %q, want %q", event.Type, EventPaymentSucceeded)
	}
	if event.IntentID != "pi_123" || event.TransactionID != "tx_9" {
		t.Errorf("unexpected event fields: %+v", event)
	}

	if _, err := ParseWebhook([]byte(`{"type":"payment.failed"}`)); err == nil {
		t.Error("event without intent_id accepted")
	}
	if _, err := ParseWebhook([]byte(`not json`)); err == nil {
		t.Error("invalid json accepted")
	}
}
