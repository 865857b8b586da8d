package cache

import (
	"context"
	"time"
)

// NoOpCache is a cache implementation that does nothing. Used when Redis is
// not configured - all operations succeed but every lookup is a miss, so the
// moderation call always runs.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// GetVerdict always returns nil (cache miss)
func (c *NoOpCache) GetVerdict(ctx context.Context, key string) (*Verdict, error) {
	return nil, nil
}

// SetVerdict does nothing and always succeeds
func (c *NoOpCache) SetVerdict(ctx context.Context, key string, v *Verdict, ttl time.Duration) error {
	return nil
}

// Close does nothing and always succeeds
func (c *NoOpCache) Close() error {
	return nil
}
