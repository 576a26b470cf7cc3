package caching

import (
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() failed: %v", err)
	}

	if _, ok := c.Get("https://a.edu/s1"); ok {
		t.Fatal("Get() hit on empty cache")
	}
	if err := c.Set("https://a.edu/s1#apply", []byte("<html>")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	data, ok := c.Get("https://a.edu/s1")
	if !ok || string(data) != "<html>" {
		t.Errorf("Get() = %q, %v; fragment should not affect the key", data, ok)
	}
}

func TestCache_Expired(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set("https://a.edu/s1", []byte("x")); err != nil {
		t.Fatal(err)
	}

	c.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, ok := c.Get("https://a.edu/s1"); ok {
		t.Error("Get() returned an expired entry")
	}
}

func TestCache_Disabled(t *testing.T) {
	c, err := NewCache(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if c.Enabled() {
		t.Fatal("zero ttl cache reports enabled")
	}
	if err := c.Set("https://a.edu/s1", []byte("x")); err != nil {
		t.Fatalf("Set() on disabled cache failed: %v", err)
	}
	if _, ok := c.Get("https://a.edu/s1"); ok {
		t.Error("disabled cache returned a hit")
	}

	var nilCache *Cache
	if nilCache.Enabled() {
		t.Error("nil cache reports enabled")
	}
}
