package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/log"
)

// redisStore is a Redis-backed Store, mirroring the teacher's
// storage/redis.client: one key per (category, id), namespaced by a
// category-derived prefix so unrelated categories never collide.
type redisStore struct {
	db     redis.UniversalClient
	logger log.Logger
}

// NewRedis returns a Store backed by the given Redis URL (e.g.
// "redis://localhost:6379/0"), as configured by GENERIC_CACHE_STORE_URL.
func NewRedis(url string, logger log.Logger) (Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("cache: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: connect to redis: %w", err)
	}

	return &redisStore{db: client, logger: logger}, nil
}

func redisKey(category Category, id string) string {
	return string(category) + "/" + id
}

func (r *redisStore) Put(ctx context.Context, category Category, id string, value []byte, ttl time.Duration) error {
	if err := r.db.Set(ctx, redisKey(category, id), value, ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis put: %w", err)
	}
	return nil
}

func (r *redisStore) Get(ctx context.Context, category Category, id string) ([]byte, bool, error) {
	val, err := r.db.Get(ctx, redisKey(category, id)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: redis get: %w", err)
	}
	return val, true, nil
}

func (r *redisStore) Remove(ctx context.Context, category Category, id string) error {
	if err := r.db.Del(ctx, redisKey(category, id)).Err(); err != nil {
		return fmt.Errorf("cache: redis remove: %w", err)
	}
	return nil
}

func (r *redisStore) Close() error {
	return r.db.Close()
}
