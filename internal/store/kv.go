package store

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrMiss is returned by KV.Get for a key that was never written (or expired)
var ErrMiss = errors.New("cache miss")

// KV is the platform key-value primitive the record store is built on.
// ttl <= 0 means no expiry.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
}

type RedisKV struct {
	c *redis.Client
}

func NewRedisKV(c *redis.Client) *RedisKV { return &RedisKV{c: c} }

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.c.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.c.Set(ctx, key, value, ttl).Err()
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return r.c.Del(ctx, key).Err()
}

func (r *RedisKV) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		k, next, err := r.c.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

// PrefixKV namespaces every key of an underlying KV.
// Used to keep the secure tier apart when it shares a backend with records.
type PrefixKV struct {
	kv     KV
	prefix string
}

func NewPrefixKV(kv KV, prefix string) *PrefixKV { return &PrefixKV{kv: kv, prefix: prefix} }

func (p *PrefixKV) Get(ctx context.Context, key string) (string, error) {
	return p.kv.Get(ctx, p.prefix+key)
}

func (p *PrefixKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return p.kv.Set(ctx, p.prefix+key, value, ttl)
}

func (p *PrefixKV) Delete(ctx context.Context, key string) error {
	return p.kv.Delete(ctx, p.prefix+key)
}

func (p *PrefixKV) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	keys, err := p.kv.ScanKeys(ctx, p.prefix+pattern)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k[len(p.prefix):])
	}
	return out, nil
}
