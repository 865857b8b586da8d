package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"studiebot-llm/internal/llm"
	"studiebot-llm/internal/retry"
)

const (
	hintsTemperature = 0.3
	gradeTemperature = 0.2
)

// Invoker calls the provider with a bounded attempt budget. Each attempt is
// wrapped in its own timeout and preceded by the policy's backoff delay (zero
// for the first attempt).
type Invoker struct {
	hints  llm.Generator
	grade  llm.Generator
	policy Policy
	log    *slog.Logger
}

// NewInvoker builds an invoker with one generator per endpoint; the two may
// run different models.
func NewInvoker(hints, grade llm.Generator, policy Policy, log *slog.Logger) *Invoker {
	return &Invoker{hints: hints, grade: grade, policy: policy, log: log}
}

// GenerateHints runs the attempt budget for the hints endpoint. It never
// returns an error: when every attempt fails it substitutes the hard-coded
// terminal fallback object, and reports exhausted=true so the assembler can
// attach the degradation notice. A transport failure must not reach the
// caller on this path.
func (iv *Invoker) GenerateHints(ctx context.Context, system, user string) (raw map[string]any, attempts int, exhausted bool) {
	raw, attempts, err := iv.invoke(ctx, iv.hints, system, user, iv.policy.HintsTimeout, hintsTemperature)
	if err != nil {
		iv.log.Warn("hints generation exhausted attempt budget", "attempts", attempts, "err", err)
		return terminalRaw(), attempts, true
	}
	return raw, attempts, false
}

// GradeQuiz runs the attempt budget for the grading endpoint. Unlike the
// hints path, the final failure propagates; the assembler converts it to a
// provider_error notice.
func (iv *Invoker) GradeQuiz(ctx context.Context, system, user string) (map[string]any, int, error) {
	return iv.invoke(ctx, iv.grade, system, user, iv.policy.GradeTimeout, gradeTemperature)
}

func (iv *Invoker) invoke(ctx context.Context, gen llm.Generator, system, user string, timeout time.Duration, temperature float64) (map[string]any, int, error) {
	var lastErr error
	for attempt, delay := range iv.policy.Backoff {
		if err := retry.Wait(ctx, delay); err != nil {
			return nil, attempt, err
		}
		raw, err := iv.attempt(ctx, gen, system, user, timeout, temperature)
		if err == nil {
			return raw, attempt + 1, nil
		}
		lastErr = err
		iv.log.Debug("provider attempt failed", "attempt", attempt+1, "err", err)
	}
	return nil, len(iv.policy.Backoff), lastErr
}

func (iv *Invoker) attempt(ctx context.Context, gen llm.Generator, system, user string, timeout time.Duration, temperature float64) (map[string]any, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := gen.Generate(attemptCtx, system, user, llm.GenerateOptions{Temperature: temperature})
	if err != nil {
		return nil, err
	}
	return parseObject(text)
}

// parseObject decodes the provider text as a JSON object. Providers
// occasionally wrap the object in prose or code fences, so a failed decode
// retries on the outermost brace span.
func parseObject(text string) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err == nil {
		return raw, nil
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("provider response is not a JSON object")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	return raw, nil
}
