package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c := New()
	defer c.Stop()

	if _, ok := c.Get("missing"); ok {
		t.Error("Get() on empty cache returned ok")
	}

	c.Set("k", "v", time.Minute)
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Errorf("Get() = %q, %v, want %q, true", got, ok, "v")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New()
	defer c.Stop()

	c.Set("k", "v", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("Get() returned expired entry")
	}
}

func TestCache_Overwrite(t *testing.T) {
	c := New()
	defer c.Stop()

	c.Set("k", "old", time.Minute)
	c.Set("k", "new", time.Minute)

	if got, _ := c.Get("k"); got != "new" {
		t.Errorf("Get() = %q, want %q", got, "new")
	}
}

func TestCache_RemoveExpired(t *testing.T) {
	c := New()
	defer c.Stop()

	c.Set("stale", "v", -time.Second)
	c.Set("fresh", "v", time.Minute)

	c.removeExpired()

	c.mu.RLock()
	_, staleKept := c.entries["stale"]
	_, freshKept := c.entries["fresh"]
	c.mu.RUnlock()

	if staleKept {
		t.Error("expired entry survived cleanup")
	}
	if !freshKept {
		t.Error("live entry removed by cleanup")
	}
}

func TestCache_StopIdempotent(t *testing.T) {
	c := New()
	c.Stop()
	c.Stop()
}

func TestCache_Concurrent(t *testing.T) {
	c := New()
	defer c.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%3)
			c.Set(key, "v", time.Minute)
			c.Get(key)
		}(i)
	}
	wg.Wait()
}
