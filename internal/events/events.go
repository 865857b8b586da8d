package events

import (
	"context"
	"time"

	"studiebot-llm/internal/retry"
)

// Endpoint enumerates the pipelines that emit usage events.
type Endpoint string

const (
	EndpointGenerateHints Endpoint = "generate_hints"
	EndpointGradeQuiz     Endpoint = "grade_quiz"
)

// Usage records the outcome of one request pipeline run. Events carry no
// student text, only outcome metadata.
type Usage struct {
	RequestID  string    `json:"request_id"`
	Endpoint   Endpoint  `json:"endpoint"`
	Mode       string    `json:"mode,omitempty"`
	Notice     string    `json:"notice,omitempty"`
	Attempts   int       `json:"attempts"`
	DurationMS int64     `json:"duration_ms"`
	At         time.Time `json:"at"`
}

// Publisher exposes a minimal contract to emit usage events.
type Publisher interface {
	Publish(ctx context.Context, u Usage) error
	Close()
}

// PublishWithRetry attempts to publish with retries and exponential backoff.
// Publishing is best-effort; callers log the final error and move on.
func PublishWithRetry(ctx context.Context, p Publisher, u Usage, attempts int, base time.Duration) error {
	if attempts <= 0 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		if err := p.Publish(ctx, u); err == nil {
			return nil
		} else if attempt == attempts-1 {
			return err
		}
		if err := retry.Wait(ctx, retry.ExponentialBackoff(attempt, base)); err != nil {
			return err
		}
	}
	return nil
}
