package soundcache

import (
	"encoding/json"
	"time"

	"github.com/keshon/datastore"
	"github.com/rs/zerolog/log"
)

// DefaultTTL is how long cached audio stays valid unless a TTL is given.
const DefaultTTL = 7 * 24 * time.Hour

type entry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Cache stores downloaded audio bytes keyed by source URL, with expiry.
// It sits strictly off the critical path: every failure degrades to a miss
// or a logged no-op, never an error to the caller.
type Cache struct {
	ds         *datastore.DataStore
	defaultTTL time.Duration
	now        func() time.Time
}

// New opens (or creates) the cache file at path.
func New(path string, defaultTTL time.Duration) (*Cache, error) {
	ds, err := datastore.New(path)
	if err != nil {
		return nil, err
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache{ds: ds, defaultTTL: defaultTTL, now: time.Now}, nil
}

func (c *Cache) Close() error {
	return c.ds.Close()
}

// Get returns the cached bytes for key, or absent when the entry is
// missing, expired, or unreadable.
func (c *Cache) Get(key string) ([]byte, bool) {
	raw, ok := c.ds.Get(key)
	if !ok {
		return nil, false
	}

	e, err := decodeEntry(raw)
	if err != nil {
		log.Warn().Str("key", key).Err(err).Msg("Unreadable cache entry, treating as miss")
		return nil, false
	}

	if !c.now().Before(e.ExpiresAt) {
		c.ds.Delete(key)
		return nil, false
	}

	return e.Data, true
}

// Put stores data under key with expiry now+ttl. A non-positive ttl uses
// the cache default.
func (c *Cache) Put(key string, data []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.ds.Add(key, entry{
		Data:      data,
		ExpiresAt: c.now().Add(ttl),
	})
}

// Invalidate removes the entry for key if present. Idempotent.
func (c *Cache) Invalidate(key string) {
	c.ds.Delete(key)
}

// decodeEntry converts a datastore value back into an entry. Values read
// from disk come back as generic JSON maps, so round-trip through JSON.
func decodeEntry(raw any) (*entry, error) {
	if e, ok := raw.(entry); ok {
		return &e, nil
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}

	var e entry
	if err := json.Unmarshal(jsonData, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
