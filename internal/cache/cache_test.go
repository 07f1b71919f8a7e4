package cache

import (
	"context"
	"testing"
)

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	if c.Enabled() {
		t.Fatal("nil cache must be disabled")
	}
	c.SetJSON(ctx, "k", map[string]int{"a": 1})
	var out map[string]int
	if c.GetJSON(ctx, "k", &out) {
		t.Fatal("nil cache must always miss")
	}
	c.Delete(ctx, "k")
	c.DeletePrefix(ctx, "k")
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewWithoutAddrDisables(t *testing.T) {
	c, err := New(context.Background(), Options{})
	if err != nil || c != nil {
		t.Fatalf("got %v, %v", c, err)
	}
}
