package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLite(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteCache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSQLiteCache(t *testing.T) {
	c := newTestSQLite(t)
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Fatalf("Get missing = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v1"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set(ctx, "k", []byte("v2"), time.Hour); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v2" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted entry still present")
	}
}

func TestSQLiteCacheExpiry(t *testing.T) {
	c := newTestSQLite(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Errorf("expired Get = hit %v, err %v", hit, err)
	}
}

func TestSQLiteCacheClear(t *testing.T) {
	c := newTestSQLite(t)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear(ctx)
	if err != nil || n != 3 {
		t.Errorf("Clear = %d, %v, want 3", n, err)
	}
	if n, _ := c.Clear(ctx); n != 0 {
		t.Errorf("second Clear = %d, want 0", n)
	}
}

func TestSQLiteCachePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	c, err := NewSQLiteCache(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	c, err = NewSQLiteCache(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if data, hit, err := c.Get(ctx, "k"); err != nil || !hit || string(data) != "v" {
		t.Errorf("reopened Get = %q, %v, %v", data, hit, err)
	}
	if c.Path() != path {
		t.Errorf("Path() = %q", c.Path())
	}
}
