package tutor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"studiebot-llm/internal/cache"
	"studiebot-llm/internal/llm"
)

// Gate classifies input text before any generation happens. It blocks only
// high-confidence serious violations: a category must be flagged by the
// classifier AND carry a score strictly above the confidence threshold.
// Casual or informal language passes.
//
// When the moderation service itself is unreachable the gate fails open:
// availability wins over strict moderation for this audience. This tradeoff
// is deliberate; revisit it with stakeholders before changing either way.
type Gate struct {
	mod      llm.Moderator
	verdicts cache.Cache
	policy   Policy
	log      *slog.Logger
}

// NewGate builds a gate. The verdict cache may be a NoOpCache.
func NewGate(mod llm.Moderator, verdicts cache.Cache, policy Policy, log *slog.Logger) *Gate {
	return &Gate{mod: mod, verdicts: verdicts, policy: policy, log: log}
}

const verdictTTL = 15 * time.Minute

// Flagged reports whether text should be blocked.
func (g *Gate) Flagged(ctx context.Context, text string) bool {
	key := verdictKey(text)
	if v, err := g.verdicts.GetVerdict(ctx, key); err == nil && v != nil {
		return v.Flagged
	}

	modCtx, cancel := context.WithTimeout(ctx, g.policy.ModerationTimeout)
	defer cancel()

	classification, err := g.mod.Classify(modCtx, text)
	if err != nil {
		// Fail open: an unreachable moderation service must not take the
		// tutor down with it.
		g.log.Warn("moderation unavailable, failing open", "err", err)
		return false
	}

	flagged := g.evaluate(classification)
	if err := g.verdicts.SetVerdict(ctx, key, &cache.Verdict{Flagged: flagged}, verdictTTL); err != nil {
		g.log.Debug("verdict cache write failed", "err", err)
	}
	return flagged
}

func (g *Gate) evaluate(c llm.Classification) bool {
	for _, category := range seriousCategories {
		if !c.Categories[category] {
			continue
		}
		if c.CategoryScores[category] > g.policy.ModerationConfidence {
			g.log.Info("input blocked by safety gate", "category", category)
			return true
		}
	}
	return false
}

func verdictKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
