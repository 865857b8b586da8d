package llm

import "context"

// GenerateOptions carries per-call tuning for text generation. Zero values
// mean provider defaults.
type GenerateOptions struct {
	MaxTokens   int64
	Temperature float64
	Stop        []string
}

// Generator is a minimal LLM interface to allow pluggable providers. The
// implementation chooses its own transport strategy; callers only see a
// system/user message pair and a text response that is expected (but not
// guaranteed) to be a JSON object.
type Generator interface {
	Generate(ctx context.Context, system, user string, opts GenerateOptions) (string, error)
}

// Classification is the raw moderation verdict per category.
type Classification struct {
	Categories     map[string]bool
	CategoryScores map[string]float64
}

// Moderator classifies text against the provider's content policy.
type Moderator interface {
	Classify(ctx context.Context, text string) (Classification, error)
}
