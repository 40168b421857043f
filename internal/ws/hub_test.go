package ws

import (
	"encoding/json"
	"testing"
	"time"

	"fxportal/internal/domain"

	"github.com/shopspring/decimal"
)

func TestHubAccountUpdated(t *testing.T) {
	hub := NewHub()

	c1 := &Client{UserID: 1, Send: make(chan []byte, 4), hub: hub}
	c2 := &Client{UserID: 1, Send: make(chan []byte, 4), hub: hub}
	other := &Client{UserID: 2, Send: make(chan []byte, 4), hub: hub}
	hub.register(c1)
	hub.register(c2)
	hub.register(other)

	account := &domain.TradingAccount{
		ID:      10,
		UserID:  1,
		Balance: decimal.RequireFromString("150.25"),
	}
	hub.AccountUpdated(1, account)

	for _, c := range []*Client{c1, c2} {
		select {
		case msg := <-c.Send:
			var got accountUpdate
			if err := json.Unmarshal(msg, &got); err != nil {
				t.Fatalf("unmarshal push: %v", err)
			}
			if got.Type != "account_update" {
				t.Errorf("type = %q, want account_update", got.Type)
			}
			if got.Account == nil || got.Account.ID != 10 {
				t.Errorf("unexpected account payload: %+v", got.Account)
			}
		default:
			t.Fatal("expected a pushed message for user 1 session")
		}
	}

	select {
	case <-other.Send:
		t.Fatal("user 2 received user 1's update")
	default:
	}
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub()
	c := &Client{UserID: 5, Send: make(chan []byte, 1), hub: hub}

	hub.register(c)
	hub.unregister(c)

	hub.AccountUpdated(5, &domain.TradingAccount{ID: 1, UserID: 5})

	select {
	case <-c.Send:
		t.Fatal("unregistered client received an update")
	default:
	}
}

// A client with a full buffer must not block the broadcast.
func TestHubSkipsSlowClient(t *testing.T) {
	hub := NewHub()
	c := &Client{UserID: 3, Send: make(chan []byte), hub: hub}
	hub.register(c)

	done := make(chan struct{})
	go func() {
		hub.AccountUpdated(3, &domain.TradingAccount{ID: 2, UserID: 3})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on slow client")
	}
}
