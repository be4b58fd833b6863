package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func OpenRedis(addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// TokenStore keeps short-lived credentials for outbound integrations.
type TokenStore struct {
	rdb    *redis.Client
	prefix string
}

func NewTokenStore(rdb *redis.Client, prefix string) *TokenStore {
	return &TokenStore{rdb: rdb, prefix: prefix}
}

// Get returns ok=false on a miss.
func (s *TokenStore) Get(ctx context.Context, name string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, s.prefix+name).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *TokenStore) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.prefix+name, value, ttl).Err()
}
