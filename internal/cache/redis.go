package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"schoolboard/internal/metrics"
)

// Redis keeps summaries in Redis under "<prefix>:<generation>:<key>".
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = "attendance:summary"
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) genKey() string { return r.prefix + ":gen" }

func (r *Redis) generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, r.genKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("read cache generation: %w", err)
	}
	return gen, nil
}

func (r *Redis) key(gen int64, key string) string {
	return fmt.Sprintf("%s:%d:%s", r.prefix, gen, key)
}

func (r *Redis) Get(ctx context.Context, key string, dst any) (int64, bool, error) {
	gen, err := r.generation(ctx)
	if err != nil {
		return 0, false, err
	}
	data, err := r.client.Get(ctx, r.key(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return gen, false, nil
	}
	if err != nil {
		return gen, false, err
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return gen, true, json.Unmarshal(data, dst)
}

// Set writes under gen. After an Invalidate that key is never read again and
// expires through its TTL.
func (r *Redis) Set(ctx context.Context, gen int64, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(gen, key), data, r.ttl).Err()
}

// Invalidate moves to a new generation; stale entries expire through their TTL.
func (r *Redis) Invalidate(ctx context.Context) error {
	return r.client.Incr(ctx, r.genKey()).Err()
}
