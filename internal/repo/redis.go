package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/pkordes/voyager/internal/domain"
)

// redisKV is a KVStore on Redis. Keys expire after ttl, so stale drafts are
// evicted by the server as well as ignored by the cache.
type redisKV struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects to addr (host:port). An empty addr means
// localhost:6379.
func NewRedisClient(addr string) *redis.Client {
	if addr == "" {
		addr = "localhost:6379"
	}
	return redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
}

// NewRedisKV returns a KVStore on client. A zero ttl disables expiry.
func NewRedisKV(client *redis.Client, ttl time.Duration) KVStore {
	return &redisKV{client: client, ttl: ttl}
}

func (s *redisKV) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("repo.redisKV.Get: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.redisKV.Get: %w", err)
	}
	return v, nil
}

func (s *redisKV) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("repo.redisKV.Set: %w", err)
	}
	return nil
}

func (s *redisKV) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("repo.redisKV.Delete: %w", err)
	}
	return nil
}
