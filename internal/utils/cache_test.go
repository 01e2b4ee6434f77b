package utils

import (
	"fmt"
	"testing"
	"time"
)

func TestTTLCacheBasicOperations(t *testing.T) {
	cache := NewTTLCache[string](10, time.Minute)

	if _, found := cache.Get("missing"); found {
		t.Error("Expected miss for absent key")
	}

	cache.Set("query", "https://example.com/watch?v=abc")

	value, found := cache.Get("query")
	if !found {
		t.Fatal("Expected hit after Set")
	}
	if value != "https://example.com/watch?v=abc" {
		t.Errorf("Got %q, want the cached URL", value)
	}

	cache.Delete("query")
	if _, found := cache.Get("query"); found {
		t.Error("Expected miss after Delete")
	}
}

func TestTTLCacheOverwrite(t *testing.T) {
	cache := NewTTLCache[string](10, time.Minute)

	cache.Set("key", "first")
	cache.Set("key", "second")

	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
	value, _ := cache.Get("key")
	if value != "second" {
		t.Errorf("Got %q, want refreshed value", value)
	}
}

func TestTTLCacheLRUEviction(t *testing.T) {
	cache := NewTTLCache[int](3, time.Minute)

	for i := 0; i < 3; i++ {
		cache.Set(fmt.Sprintf("key%d", i), i)
	}

	// touch key0 so key1 becomes the eviction candidate
	cache.Get("key0")

	cache.Set("key3", 3)

	if cache.Len() != 3 {
		t.Errorf("Len = %d, want 3", cache.Len())
	}
	if _, found := cache.Get("key1"); found {
		t.Error("Expected least recently used entry to be evicted")
	}
	for _, key := range []string{"key0", "key2", "key3"} {
		if _, found := cache.Get(key); !found {
			t.Errorf("Expected %s to survive eviction", key)
		}
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	cache := NewTTLCache[string](10, 50*time.Millisecond)

	cache.Set("key", "value")
	if _, found := cache.Get("key"); !found {
		t.Fatal("Expected hit before expiry")
	}

	time.Sleep(100 * time.Millisecond)

	if _, found := cache.Get("key"); found {
		t.Error("Expected miss after TTL")
	}
	if cache.Len() != 0 {
		t.Errorf("Len = %d, want expired entry dropped", cache.Len())
	}
}

func TestTTLCacheZeroTTLNeverExpires(t *testing.T) {
	cache := NewTTLCache[string](10, 0)

	cache.Set("key", "value")
	time.Sleep(20 * time.Millisecond)

	if _, found := cache.Get("key"); !found {
		t.Error("Expected entry without TTL to persist")
	}
}

func TestTTLCacheStats(t *testing.T) {
	cache := NewTTLCache[string](10, time.Minute)

	cache.Set("key", "value")
	cache.Get("key")
	cache.Get("key")
	cache.Get("missing")

	hits, misses := cache.Stats()
	if hits != 2 {
		t.Errorf("hits = %d, want 2", hits)
	}
	if misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}
}
