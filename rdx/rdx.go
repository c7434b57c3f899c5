// Package rdx wraps the Redis client used for short-lived state: revoked
// session tokens and email verification codes.
package rdx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	conn *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{
		conn: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// NewWithClient exists for tests that use a mocked client.
func NewWithClient(c *redis.Client) *Store {
	return &Store{conn: c}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx).Err()
}

// --- Revoked tokens ---

// RevokeToken blacklists a session token until its natural expiry.
func (s *Store) RevokeToken(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.conn.Set(ctx, "revoked:"+token, "1", ttl).Err()
}

func (s *Store) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.conn.Exists(ctx, "revoked:"+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// --- Email OTP ---

func (s *Store) SetOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.conn.Set(ctx, "otp:"+email, code, ttl).Err()
}

func (s *Store) GetOTP(ctx context.Context, email string) (string, error) {
	return s.conn.Get(ctx, "otp:"+email).Result()
}

func (s *Store) DeleteOTP(ctx context.Context, email string) error {
	return s.conn.Del(ctx, "otp:"+email).Err()
}

func (s *Store) Close() error {
	return s.conn.Close()
}
