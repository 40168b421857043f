package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"math/big"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// OTPStore issues and verifies one-time confirmation codes for external
// transfers. Codes live in Redis under a TTL equal to the transfer's expiry
// window, so an expired code and an expired transfer coincide.
type OTPStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOTPStore(client *redis.Client, ttl time.Duration) *OTPStore {
	return &OTPStore{client: client, ttl: ttl}
}

// GenerateOTPCode returns a 6-digit numeric code from crypto/rand.
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	code := strconv.FormatInt(n.Int64(), 10)
	for len(code) < 6 {
		code = "0" + code
	}
	return code, nil
}

func transferOTPKey(transferID int64) string {
	return "otp:transfer:" + strconv.FormatInt(transferID, 10)
}

// Issue generates and stores a code for the given transfer.
func (s *OTPStore) Issue(ctx context.Context, transferID int64) (string, error) {
	if s.client == nil {
		return "", errors.New("otp store not configured")
	}

	code, err := GenerateOTPCode()
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, transferOTPKey(transferID), code, s.ttl).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks a submitted code. The code is never consumed here: the
// caller calls Invalidate after its settlement commits, so a failed commit
// leaves the code usable and the transfer confirmable. A wrong code also
// stays stored, so the user may retry until the TTL runs out.
func (s *OTPStore) Verify(ctx context.Context, transferID int64, code string) error {
	if s.client == nil {
		return errors.New("otp store not configured")
	}

	stored, err := s.client.Get(ctx, transferOTPKey(transferID)).Result()
	if err == redis.Nil {
		return ErrOTPExpired
	}
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return ErrOTPInvalid
	}
	return nil
}

// Invalidate drops any outstanding code for a transfer.
func (s *OTPStore) Invalidate(ctx context.Context, transferID int64) {
	if s.client != nil {
		s.client.Del(ctx, transferOTPKey(transferID))
	}
}
