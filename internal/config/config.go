package config

import (
	"log/slog"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration. The pipeline receives this struct at
// construction time; nothing reads ambient process state at call time.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// LLM provider
	LLMEnabled      bool   `env:"LLM_ENABLED" envDefault:"false"`
	LLMProvider     string `env:"LLM_PROVIDER" envDefault:"openai"` // "openai" (uses OpenAI API) or "stub" (for testing)
	OpenAIKey       string `env:"OPENAI_API_KEY"`
	HintsModel      string `env:"OPENAI_MODEL_HINTS" envDefault:"gpt-4o-mini"`
	GradeModel      string `env:"OPENAI_MODEL_GRADE" envDefault:"gpt-4o-mini"`
	ModerationModel string `env:"OPENAI_MODERATION_MODEL" envDefault:"omni-moderation-latest"`

	// Moderation verdict cache (optional; noop when RedisAddr is empty)
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Usage event sink (optional; noop when EventsURL is empty)
	EventsURL string `env:"EVENTS_URL"`

	// Normalization policy tunables. The remaining policy parameters keep
	// their defaults from tutor.DefaultPolicy.
	TutorMaxWords          int     `env:"TUTOR_MAX_WORDS" envDefault:"80"`
	HintRelevanceThreshold float64 `env:"HINT_RELEVANCE_THRESHOLD" envDefault:"0.3"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}

// Configured reports whether the selected provider has the credentials it
// needs. The stub provider never needs credentials.
func (c Config) Configured() bool {
	if c.LLMProvider == "openai" {
		return c.OpenAIKey != ""
	}
	return true
}
