package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sessions tracks issued refresh tokens so logout and account locking can
// revoke them before they expire.
type Sessions interface {
	Save(ctx context.Context, userID, tokenID string, ttl time.Duration) error
	Active(ctx context.Context, userID, tokenID string) (bool, error)
	Revoke(ctx context.Context, userID, tokenID string) error
	RevokeAll(ctx context.Context, userID string) error
}

// RedisSessions keeps one key per refresh token. With a nil client every
// method is a no-op and every signed refresh token counts as active.
type RedisSessions struct {
	rdb *redis.Client
}

func NewRedisSessions(rdb *redis.Client) *RedisSessions { return &RedisSessions{rdb: rdb} }

func sessionKey(userID, tokenID string) string {
	return fmt.Sprintf("session:%s:%s", userID, tokenID)
}

func (s *RedisSessions) Save(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Set(ctx, sessionKey(userID, tokenID), 1, ttl).Err()
}

func (s *RedisSessions) Active(ctx context.Context, userID, tokenID string) (bool, error) {
	if s.rdb == nil {
		return true, nil
	}
	n, err := s.rdb.Exists(ctx, sessionKey(userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *RedisSessions) Revoke(ctx context.Context, userID, tokenID string) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(userID, tokenID)).Err()
}

func (s *RedisSessions) RevokeAll(ctx context.Context, userID string) error {
	if s.rdb == nil {
		return nil
	}
	iter := s.rdb.Scan(ctx, 0, sessionKey(userID, "*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

// NewRedis connects to addr, returning nil when addr is empty.
func NewRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
