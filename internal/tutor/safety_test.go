package tutor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"

	"studiebot-llm/internal/cache"
	"studiebot-llm/internal/llm"
)

func testLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func classification(category string, flagged bool, score float64) llm.Classification {
	return llm.Classification{
		Categories:     map[string]bool{category: flagged},
		CategoryScores: map[string]float64{category: score},
	}
}

func TestGateBlocksHighConfidenceSeriousCategory(t *testing.T) {
	mod := new(llm.MockModerator)
	mod.On("Classify", mock.Anything, "haatdragende tekst").
		Return(classification("hate", true, 0.95), nil)

	gate := NewGate(mod, cache.NewNoOpCache(), DefaultPolicy(), testLog())
	if !gate.Flagged(context.Background(), "haatdragende tekst") {
		t.Error("Flagged = false, want true for hate at 0.95")
	}
	mod.AssertExpectations(t)
}

func TestGatePassesLowConfidence(t *testing.T) {
	tests := []struct {
		name string
		c    llm.Classification
	}{
		{"flagged below threshold", classification("hate", true, 0.5)},
		{"exactly at threshold", classification("hate", true, 0.8)},
		{"score without flag", classification("hate", false, 0.99)},
		{"non-serious category", classification("harassment", true, 0.99)},
		{"clean", llm.Classification{Categories: map[string]bool{}, CategoryScores: map[string]float64{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := new(llm.MockModerator)
			mod.On("Classify", mock.Anything, mock.Anything).Return(tt.c, nil)
			gate := NewGate(mod, cache.NewNoOpCache(), DefaultPolicy(), testLog())
			if gate.Flagged(context.Background(), "een gewone vraag") {
				t.Error("Flagged = true, want false")
			}
		})
	}
}

func TestGateFailsOpenOnModerationError(t *testing.T) {
	mod := new(llm.MockModerator)
	mod.On("Classify", mock.Anything, mock.Anything).
		Return(llm.Classification{}, errors.New("connection refused"))

	gate := NewGate(mod, cache.NewNoOpCache(), DefaultPolicy(), testLog())
	if gate.Flagged(context.Background(), "willekeurige tekst") {
		t.Error("Flagged = true, want fail-open false")
	}
}

func TestGateUsesCachedVerdict(t *testing.T) {
	verdicts := new(cache.MockCache)
	verdicts.On("GetVerdict", mock.Anything, mock.Anything).
		Return(&cache.Verdict{Flagged: true}, nil)

	mod := new(llm.MockModerator)
	gate := NewGate(mod, verdicts, DefaultPolicy(), testLog())

	if !gate.Flagged(context.Background(), "eerder geblokkeerde tekst") {
		t.Error("Flagged = false, want cached true")
	}
	mod.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
}

func TestGateWritesVerdictToCache(t *testing.T) {
	verdicts := new(cache.MockCache)
	verdicts.On("GetVerdict", mock.Anything, mock.Anything).Return(nil, nil)
	verdicts.On("SetVerdict", mock.Anything, mock.Anything, &cache.Verdict{Flagged: false}, verdictTTL).
		Return(nil)

	mod := new(llm.MockModerator)
	mod.On("Classify", mock.Anything, mock.Anything).
		Return(llm.Classification{}, nil)

	gate := NewGate(mod, verdicts, DefaultPolicy(), testLog())
	gate.Flagged(context.Background(), "een gewone vraag")
	verdicts.AssertExpectations(t)
}
