package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scubafy-dev/scubafy-backend/internal/domain"
)

// ErrCacheMiss is returned when no resolution is cached for a code.
var ErrCacheMiss = errors.New("resolution cache miss")

// Resolution is the cached outcome of a center lookup by staff code. Center
// resolution is tenant discovery, not an authorization decision, so a short
// staleness window is acceptable.
type Resolution struct {
	Staff  domain.Staff      `json:"staff"`
	Center domain.DiveCenter `json:"center"`
}

// ResolutionCache caches center resolution by staff code.
type ResolutionCache interface {
	Get(ctx context.Context, code string) (*Resolution, error)
	Set(ctx context.Context, code string, res *Resolution) error
	Invalidate(ctx context.Context, codes ...string) error
}

type redisResolutionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResolutionCache returns a Redis-backed cache. A nil client or
// non-positive TTL yields a cache that always misses.
func NewResolutionCache(client *redis.Client, ttl time.Duration) ResolutionCache {
	return &redisResolutionCache{client: client, ttl: ttl}
}

func cacheKey(code string) string {
	return "resolve:center:" + code
}

func (c *redisResolutionCache) Get(ctx context.Context, code string) (*Resolution, error) {
	if c.client == nil || c.ttl <= 0 {
		return nil, ErrCacheMiss
	}
	raw, err := c.client.Get(ctx, cacheKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	var res Resolution
	if err := json.Unmarshal(raw, &res); err != nil {
		// Poisoned entries are dropped and treated as a miss.
		_ = c.client.Del(ctx, cacheKey(code)).Err()
		return nil, ErrCacheMiss
	}
	return &res, nil
}

func (c *redisResolutionCache) Set(ctx context.Context, code string, res *Resolution) error {
	if c.client == nil || c.ttl <= 0 || res == nil {
		return nil
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(code), raw, c.ttl).Err()
}

func (c *redisResolutionCache) Invalidate(ctx context.Context, codes ...string) error {
	if c.client == nil || len(codes) == 0 {
		return nil
	}
	keys := make([]string, 0, len(codes))
	for _, code := range codes {
		if code == "" {
			continue
		}
		keys = append(keys, cacheKey(code))
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
