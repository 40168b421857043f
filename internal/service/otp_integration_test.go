package service

import (
	"context"
	"os"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Integration-style test: runs only if REDIS_ADDR env is set.
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping redis: %v", err)
	}
	return client
}

// A correct code must survive Verify: it is only spent by an explicit
// Invalidate after the settlement commits, so a commit failure leaves the
// transfer confirmable with the same code.
func TestOTPStore_VerifyDoesNotConsumeCode(t *testing.T) {
	client := newTestRedis(t)
	defer client.Close()

	store := NewOTPStore(client, time.Minute)
	ctx := context.Background()
	const transferID = int64(990001)
	defer store.Invalidate(ctx, transferID)

	code, err := store.Issue(ctx, transferID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	if err := store.Verify(ctx, transferID, wrong); err != ErrOTPInvalid {
		t.Fatalf("wrong code: got %v, want ErrOTPInvalid", err)
	}

	if err := store.Verify(ctx, transferID, code); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	// Simulates a retry after a failed settlement commit.
	if err := store.Verify(ctx, transferID, code); err != nil {
		t.Fatalf("second verify: code was consumed early: %v", err)
	}

	store.Invalidate(ctx, transferID)
	if err := store.Verify(ctx, transferID, code); err != ErrOTPExpired {
		t.Fatalf("after invalidate: got %v, want ErrOTPExpired", err)
	}
}

func TestOTPStore_UnknownTransferExpired(t *testing.T) {
	client := newTestRedis(t)
	defer client.Close()

	store := NewOTPStore(client, time.Minute)
	if err := store.Verify(context.Background(), 990002, "123456"); err != ErrOTPExpired {
		t.Fatalf("got %v, want ErrOTPExpired", err)
	}
}
