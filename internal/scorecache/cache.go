// Package scorecache caches full scoring results in Redis so dashboard
// reads skip the engine. Keys are score:<clientID>; entries expire on a
// configurable TTL and are invalidated on every client mutation.
package scorecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"msp_portal_backend/internal/scoring"
)

// Cache stores scoring results keyed by client ID. A nil *Cache is a valid
// no-op cache, so callers never need to branch on whether redis is wired.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a score cache over the given redis client. ttl <= 0 falls
// back to one hour.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func key(clientID string) string {
	return "score:" + clientID
}

// Get returns the cached result for a client, or (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, clientID string) (*scoring.ScoreResult, error) {
	if c == nil || c.rdb == nil {
		return nil, nil
	}

	raw, err := c.rdb.Get(ctx, key(clientID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("score cache get: %w", err)
	}

	var result scoring.ScoreResult
	if err := json.Unmarshal(raw, &result); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten.
		return nil, nil
	}

	return &result, nil
}

// Set stores a result for a client.
func (c *Cache) Set(ctx context.Context, clientID string, result scoring.ScoreResult) error {
	if c == nil || c.rdb == nil {
		return nil
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("score cache marshal: %w", err)
	}

	if err := c.rdb.Set(ctx, key(clientID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("score cache set: %w", err)
	}

	return nil
}

// Invalidate drops the cached result for a client.
func (c *Cache) Invalidate(ctx context.Context, clientID string) error {
	if c == nil || c.rdb == nil {
		return nil
	}

	if err := c.rdb.Del(ctx, key(clientID)).Err(); err != nil {
		return fmt.Errorf("score cache invalidate: %w", err)
	}

	return nil
}
