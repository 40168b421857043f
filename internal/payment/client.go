package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the card payment provider's REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IntentStatus is the provider-side state of a payment session.
type IntentStatus string

const (
	IntentStatusPending   IntentStatus = "pending"
	IntentStatusSucceeded IntentStatus = "succeeded"
	IntentStatusFailed    IntentStatus = "failed"
	IntentStatusExpired   IntentStatus = "expired"
)

// CreateIntentRequest starts a payment session. Amount is a decimal string
// in USD; Reference carries our deposit id for reconciliation.
type CreateIntentRequest struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Method    string `json:"method"`
	Reference string `json:"reference"`
	ReturnURL string `json:"return_url"`
}

// PaymentIntent is the provider's session record.
type PaymentIntent struct {
	ID            string       `json:"id"`
	Status        IntentStatus `json:"status"`
	Amount        string       `json:"amount"`
	Currency      string       `json:"currency"`
	RedirectURL   string       `json:"redirect_url,omitempty"`
	TransactionID string       `json:"transaction_id,omitempty"`
}

// CreateIntent creates a payment session and returns the checkout redirect.
func (c *Client) CreateIntent(ctx context.Context, req *CreateIntentRequest) (*PaymentIntent, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/payment_intents", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("payment provider returned %d: %s", resp.StatusCode, string(data))
	}

	var intent PaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// GetIntent retrieves the current state of a payment session.
func (c *Client) GetIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/v1/payment_intents/%s", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("payment intent %s not found", id)
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("payment provider returned %d: %s", resp.StatusCode, string(data))
	}

	var intent PaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// Webhook event types the portal reacts to.
const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentFailed    = "payment.failed"
)

// WebhookEvent is the provider's asynchronous notification payload.
type WebhookEvent struct {
	Type          string `json:"type"`
	IntentID      string `json:"intent_id"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// VerifyWebhookSignature checks the HMAC-SHA256 signature header the
// provider attaches to webhook bodies.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseWebhook decodes and validates a webhook body.
func ParseWebhook(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	if event.IntentID == "" {
		return nil, fmt.Errorf("webhook event missing intent_id")
	}
	return &event, nil
}
