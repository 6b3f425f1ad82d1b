package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Provenance records where fetched audio bytes came from.
type Provenance string

const (
	ProvenanceCache   Provenance = "cache"
	ProvenanceNetwork Provenance = "network"
)

// FetchError reports a failed network retrieval of audio bytes. It is the
// only error Fetch may return.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch audio from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Cache is the read/write surface of the audio cache. Both operations are
// best-effort and never fail.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, data []byte, ttl time.Duration)
}

// Downloader retrieves audio bytes over the network.
type Downloader interface {
	Download(ctx context.Context, sourceURL string) ([]byte, error)
}

// Fetcher resolves audio bytes cache-through: cache hit wins, otherwise the
// bytes are downloaded and the cache is populated in the background.
type Fetcher struct {
	cache      Cache
	downloader Downloader

	// putAsync stores downloaded bytes without delaying the caller.
	putAsync func(key string, data []byte)
}

func New(cache Cache, downloader Downloader) *Fetcher {
	f := &Fetcher{
		cache:      cache,
		downloader: downloader,
	}
	f.putAsync = func(key string, data []byte) {
		go f.cache.Put(key, data, 0)
	}
	return f
}

// Fetch returns the audio bytes for sourceURL and their provenance.
func (f *Fetcher) Fetch(ctx context.Context, sourceURL string) ([]byte, Provenance, error) {
	if data, ok := f.cache.Get(sourceURL); ok {
		log.Debug().Str("url", sourceURL).Msg("Audio served from cache")
		return data, ProvenanceCache, nil
	}

	data, err := f.downloader.Download(ctx, sourceURL)
	if err != nil {
		return nil, "", &FetchError{URL: sourceURL, Err: err}
	}

	f.putAsync(sourceURL, data)

	log.Debug().Str("url", sourceURL).Int("bytes", len(data)).Msg("Audio downloaded")
	return data, ProvenanceNetwork, nil
}
