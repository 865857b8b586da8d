package cache

import (
	"context"
	"testing"
	"time"
)

// TestNoOpCache verifies that NoOpCache implements the Cache interface correctly
func TestNoOpCache(t *testing.T) {
	cache := NewNoOpCache()
	ctx := context.Background()

	// GetVerdict - should always return nil (cache miss)
	v, err := cache.GetVerdict(ctx, "test-key")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if v != nil {
		t.Errorf("Expected nil verdict (cache miss), got %v", v)
	}

	// SetVerdict - should succeed silently
	err = cache.SetVerdict(ctx, "test-key", &Verdict{Flagged: true}, 1*time.Hour)
	if err != nil {
		t.Errorf("Expected no error on SetVerdict, got %v", err)
	}

	// Verify it still returns nil (nothing was actually cached)
	v, err = cache.GetVerdict(ctx, "test-key")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if v != nil {
		t.Errorf("Expected nil verdict (no-op cache doesn't store), got %v", v)
	}

	// Close - should succeed silently
	if err := cache.Close(); err != nil {
		t.Errorf("Expected no error on Close, got %v", err)
	}
}
