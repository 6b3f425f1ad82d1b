package soundcache

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c, err := New(filepath.Join(t.TempDir(), "cache.json"), ttl)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPutGetRoundTrip(t *testing.T) {
	c := newTestCache(t, time.Hour)

	want := []byte("audio-bytes")
	c.Put("https://example.com/a.mp3", want, 0)

	got, ok := c.Get("https://example.com/a.mp3")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGetMissing(t *testing.T) {
	c := newTestCache(t, time.Hour)

	if _, ok := c.Get("https://example.com/nope.mp3"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestExpiredEntryIsMiss(t *testing.T) {
	c := newTestCache(t, time.Hour)

	base := time.Now()
	c.now = func() time.Time { return base }

	c.Put("key", []byte("data"), time.Minute)

	c.now = func() time.Time { return base.Add(time.Minute) }
	if _, ok := c.Get("key"); ok {
		t.Error("entry at exactly its expiry should be a miss")
	}

	// The expired entry is dropped, not just hidden.
	if _, ok := c.ds.Get("key"); ok {
		t.Error("expired entry should be deleted on read")
	}
}

func TestEntryValidUntilExpiry(t *testing.T) {
	c := newTestCache(t, time.Hour)

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Put("key", []byte("data"), time.Minute)

	c.now = func() time.Time { return base.Add(59 * time.Second) }
	if _, ok := c.Get("key"); !ok {
		t.Error("entry before expiry should be a hit")
	}
}

func TestDefaultTTL(t *testing.T) {
	c := newTestCache(t, 0)

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Put("key", []byte("data"), 0)

	c.now = func() time.Time { return base.Add(DefaultTTL - time.Second) }
	if _, ok := c.Get("key"); !ok {
		t.Error("entry should still be valid just before the default TTL")
	}

	c.now = func() time.Time { return base.Add(DefaultTTL) }
	if _, ok := c.Get("key"); ok {
		t.Error("entry should expire after the default TTL")
	}
}

func TestInvalidate(t *testing.T) {
	c := newTestCache(t, time.Hour)

	c.Put("key", []byte("data"), 0)
	c.Invalidate("key")

	if _, ok := c.Get("key"); ok {
		t.Error("invalidated entry should be a miss")
	}

	// Idempotent on absent keys.
	c.Invalidate("key")
}
