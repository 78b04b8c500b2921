package cache

import (
	"context"
	"time"

	"github.com/matzehuels/gridnet/pkg/observability"
)

// Clearer is implemented by backends that can drop all their entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Instrumented reports cache traffic to observability.CacheHooks.
type Instrumented struct {
	Cache
	keyType string
}

// Instrument wraps c so that every Get and Set is reported under keyType.
// The hooks are looked up on every call, so hooks registered later apply.
func Instrument(c Cache, keyType string) *Instrumented {
	return &Instrumented{Cache: c, keyType: keyType}
}

// Get implements Cache.
func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, c.keyType)
		} else {
			observability.Cache().OnCacheMiss(ctx, c.keyType)
		}
	}
	return data, hit, err
}

// Set implements Cache.
func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	return nil
}

// Clear forwards to the wrapped backend when it supports clearing.
func (c *Instrumented) Clear(ctx context.Context) (int, error) {
	if cl, ok := c.Cache.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return 0, nil
}
