package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// cache entry kinds
const (
	CacheKindSummary   = "summary"
	CacheKindCountdown = "countdown"
)

// summaryCacheTTL bounds staleness of derived challenge data. Mutating
// operations invalidate explicitly; the TTL only covers writes that
// bypass this process.
const summaryCacheTTL = 30 * time.Second

// SummaryCache is an optional Redis cache for derived challenge payloads
// (summary and countdown data). A nil *SummaryCache is valid and behaves
// as an always-miss cache, so callers never branch on whether Redis is
// configured.
type SummaryCache struct {
	redis  *redis.Client
	prefix string
}

func NewSummaryCache(redis *redis.Client, prefix string) *SummaryCache {
	return &SummaryCache{
		redis:  redis,
		prefix: prefix,
	}
}

func (c *SummaryCache) key(kind string, challengeID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", c.prefix, kind, challengeID)
}

// Get loads a cached payload into dest and reports whether it was found
func (c *SummaryCache) Get(ctx context.Context, kind string, challengeID uuid.UUID, dest interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}

	data, err := c.redis.Get(ctx, c.key(kind, challengeID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached %s: %w", kind, err)
	}
	return true, nil
}

// Set stores a payload under the challenge's cache key
func (c *SummaryCache) Set(ctx context.Context, kind string, challengeID uuid.UUID, value interface{}) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", kind, err)
	}

	return c.redis.Set(ctx, c.key(kind, challengeID), data, summaryCacheTTL).Err()
}

// Invalidate drops every cached payload of one challenge
func (c *SummaryCache) Invalidate(ctx context.Context, challengeID uuid.UUID) error {
	if c == nil {
		return nil
	}

	return c.redis.Del(ctx,
		c.key(CacheKindSummary, challengeID),
		c.key(CacheKindCountdown, challengeID),
	).Err()
}
