package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/scubafy-dev/scubafy-backend/internal/domain"
)

func TestResolutionCacheWithoutClient(t *testing.T) {
	// No Redis configured: the cache degrades to an always-miss no-op
	// instead of failing resolution.
	cache := NewResolutionCache(nil, time.Minute)
	ctx := context.Background()

	if _, err := cache.Get(ctx, "BRD-4821"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
	if err := cache.Set(ctx, "BRD-4821", &Resolution{Staff: domain.Staff{ID: "s1"}}); err != nil {
		t.Errorf("expected Set to no-op, got %v", err)
	}
	if err := cache.Invalidate(ctx, "BRD-4821"); err != nil {
		t.Errorf("expected Invalidate to no-op, got %v", err)
	}
}

func TestResolutionCacheZeroTTLDisables(t *testing.T) {
	cache := NewResolutionCache(nil, 0)
	if _, err := cache.Get(context.Background(), "BRD-4821"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss with zero TTL, got %v", err)
	}
}
