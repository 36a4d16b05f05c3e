// Package cache provides a Redis-backed result cache keyed by content
// digest. Identical bytes always score identically, so a cached result
// is exactly as good as a recomputed one.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/verifiai/authenticity/pkg/analysis"
)

const keyPrefix = "verifiai:result:"

// ResultCache stores serialized analysis results with a TTL. All
// operations are best-effort: a cache failure is logged and treated as
// a miss, never surfaced to the caller.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at addr. The connection is lazy; use Ping to
// probe it at startup.
func New(addr, password string, ttl time.Duration) *ResultCache {
	return &ResultCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: ttl,
	}
}

// Key derives the cache key for a buffer and media type. The media type
// is part of the key because it changes how the buffer is scored (video
// inputs grow frame scores).
func Key(buf []byte, mediaType string) string {
	h := sha256.New()
	h.Write(buf)
	h.Write([]byte{0})
	h.Write([]byte(mediaType))
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached result for the buffer, or (nil, false) on a
// miss or any cache error.
func (c *ResultCache) Get(ctx context.Context, buf []byte, mediaType string) (*analysis.AnalysisResult, bool) {
	data, err := c.client.Get(ctx, Key(buf, mediaType)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[CACHE] Lookup failed, treating as miss: %v", err)
		}
		return nil, false
	}

	var result analysis.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		log.Printf("[CACHE] Corrupt cached entry, treating as miss: %v", err)
		return nil, false
	}
	return &result, true
}

// Put stores the result under the buffer's digest. Failures are logged
// and swallowed.
func (c *ResultCache) Put(ctx context.Context, buf []byte, mediaType string, result *analysis.AnalysisResult) {
	data, err := json.Marshal(result)
	if err != nil {
		log.Printf("[CACHE] Failed to serialize result: %v", err)
		return
	}
	if err := c.client.Set(ctx, Key(buf, mediaType), data, c.ttl).Err(); err != nil {
		log.Printf("[CACHE] Failed to store result: %v", err)
	}
}

// Ping probes the Redis connection.
func (c *ResultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *ResultCache) Close() error {
	return c.client.Close()
}
