package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. The CLI uses it for --no-cache, for backend
// "none" and when the configured backend is unavailable.
type NullCache struct{}

// NewNullCache returns a cache on which every Get misses.
func NewNullCache() Cache {
	return &NullCache{}
}

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (c *NullCache) Delete(context.Context, string) error {
	return nil
}

// Clear reports zero entries removed.
func (c *NullCache) Clear(context.Context) (int, error) {
	return 0, nil
}

func (c *NullCache) Close() error {
	return nil
}

var (
	_ Cache   = (*NullCache)(nil)
	_ Clearer = (*NullCache)(nil)
)
