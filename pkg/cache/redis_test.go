package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// redisCache connects to the server named by GRIDNET_TEST_REDIS_ADDR or
// skips the test.
func redisCache(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("GRIDNET_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GRIDNET_TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, Prefix: "gridnet-test:" + uuid.NewString() + ":"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	t.Cleanup(func() {
		_, _ = c.Clear(context.Background())
		_ = c.Close()
	})
	return c
}

func TestRedisCache(t *testing.T) {
	c := redisCache(t)
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Fatalf("Get missing = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	for _, k := range []string{"a", "b"} {
		if err := c.Set(ctx, k, []byte(k), time.Minute); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear(ctx)
	if err != nil || n != 2 {
		t.Errorf("Clear = %d, %v", n, err)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	if err == nil {
		t.Fatal("expected connection error")
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
	if IsRetryable(classify(errPlain)) {
		t.Error("command errors should not be retried")
	}
}
