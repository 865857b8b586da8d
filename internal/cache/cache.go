package cache

import (
	"context"
	"time"
)

// Verdict is a cached moderation outcome for one input text.
type Verdict struct {
	Flagged bool `json:"flagged"`
}

// Cache stores moderation verdicts keyed by a content hash so repeated
// submissions of the same text skip the external moderation call. The cache
// is external state only; the pipeline stays re-entrant without it.
type Cache interface {
	// GetVerdict retrieves a cached verdict by key. Returns nil on a miss.
	GetVerdict(ctx context.Context, key string) (*Verdict, error)

	// SetVerdict stores a verdict with TTL.
	SetVerdict(ctx context.Context, key string, v *Verdict, ttl time.Duration) error

	// Close closes the cache connection.
	Close() error
}
