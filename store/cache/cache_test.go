package cache

import (
	"fmt"
	"testing"
	"time"
)

func newTestCache(maxItems int) *Cache {
	return New(Config{
		DefaultTTL:      time.Minute,
		CleanupInterval: 10 * time.Millisecond,
		MaxItems:        maxItems,
	})
}

func TestCacheSetGet(t *testing.T) {
	c := newTestCache(0)
	defer c.Close()

	if _, ok := c.Get("missing"); ok {
		t.Error("Get() on empty cache should miss")
	}

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Errorf("Get() = %v, %v; want v, true", got, ok)
	}

	c.Set("k", "v2")
	if got, _ := c.Get("k"); got != "v2" {
		t.Errorf("Get() after overwrite = %v, want v2", got)
	}

	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("Get() after Delete should miss")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := newTestCache(0)
	defer c.Close()

	c.SetWithTTL("short", "v", 20*time.Millisecond)
	if _, ok := c.Get("short"); !ok {
		t.Fatal("entry should be present before expiry")
	}

	time.Sleep(50 * time.Millisecond)
	if _, ok := c.Get("short"); ok {
		t.Error("entry should have expired")
	}
}

func TestCacheEviction(t *testing.T) {
	c := newTestCache(3)
	defer c.Close()

	for i := 0; i < 3; i++ {
		c.SetWithTTL(fmt.Sprintf("k%d", i), i, time.Duration(i+1)*time.Hour)
	}
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}

	// k0 has the nearest expiry and is the eviction victim.
	c.Set("k3", 3)
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3 after eviction", c.Len())
	}
	if _, ok := c.Get("k0"); ok {
		t.Error("k0 should have been evicted")
	}
	if _, ok := c.Get("k3"); !ok {
		t.Error("k3 should be present")
	}

	// Overwriting an existing key at capacity evicts nothing.
	c.Set("k3", 33)
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3 after overwrite", c.Len())
	}
}

func TestCacheClear(t *testing.T) {
	c := newTestCache(0)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after Clear", c.Len())
	}
}

func TestCacheCleanupLoop(t *testing.T) {
	c := newTestCache(0)
	defer c.Close()

	c.SetWithTTL("gone", "v", 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	// The background sweep removes the expired entry entirely, not just
	// hides it from Get.
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after cleanup sweep", c.Len())
	}
}
