package cache

import (
	"testing"
	"time"
)

func TestTTLCacheGetSetDelete(t *testing.T) {
	c := NewTTLCache[string, int]()

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("balance", 42, time.Minute)
	if v, ok := c.Get("balance"); !ok || v != 42 {
		t.Fatalf("got %d/%v, want 42/true", v, ok)
	}

	c.Delete("balance")
	if _, ok := c.Get("balance"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[string, string]()

	c.Set("short", "value", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("short"); ok {
		t.Fatal("expected expired entry to miss")
	}

	c.Set("forever", "value", 0)
	if _, ok := c.Get("forever"); !ok {
		t.Fatal("zero ttl should mean no expiry")
	}
}

func TestTTLCacheNilReceiver(t *testing.T) {
	var c *TTLCache[string, int]
	if _, ok := c.Get("any"); ok {
		t.Fatal("nil cache should always miss")
	}
	c.Set("any", 1, time.Minute)
	c.Delete("any")
}
