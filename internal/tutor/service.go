package tutor

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"studiebot-llm/internal/events"
)

// Composer assembles the instruction payload for one tutoring turn.
type Composer interface {
	Compose(topicID, text, previousAnswer string, mode Mode) string
}

// PromptStore loads a static prompt resource by name. A failed load yields an
// empty string, never an error; the normalizer backstops the degradation.
type PromptStore interface {
	Load(name string) string
}

const (
	hintsPromptName = "generate_hints.yaml"
	gradePromptName = "grade_quiz.yaml"
)

// ServiceConfig is the construction-time switchboard for the pipeline.
// Nothing is read from ambient process state at call time.
type ServiceConfig struct {
	// Enabled is the operator switch for LLM generation.
	Enabled bool
	// Configured reports whether the selected provider has credentials.
	Configured bool
}

// Service wraps the full pipeline for one request: safety gate, prompt
// composition, provider invocation with retry, normalization, and assembly.
// Every path returns a fully-populated result; failures surface only through
// the notice field. Request state is local, so the service is safely
// re-entrant.
type Service struct {
	cfg      ServiceConfig
	gate     *Gate
	invoker  *Invoker
	composer Composer
	prompts  PromptStore
	events   events.Publisher
	policy   Policy
	log      *slog.Logger
}

// NewService wires the pipeline components together.
func NewService(cfg ServiceConfig, gate *Gate, invoker *Invoker, composer Composer, prompts PromptStore, pub events.Publisher, policy Policy, log *slog.Logger) *Service {
	return &Service{
		cfg:      cfg,
		gate:     gate,
		invoker:  invoker,
		composer: composer,
		prompts:  prompts,
		events:   pub,
		policy:   policy,
		log:      log,
	}
}

// GenerateHints runs one tutoring turn end to end.
func (s *Service) GenerateHints(ctx context.Context, req GenerateHintsRequest) (res GenerateHintsResult) {
	start := time.Now()
	mode := req.Mode
	if !mode.Valid() {
		mode = ModeLearn
	}
	attempts := 0
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("generate hints failed to assemble; returning minimal fallback", "panic", r)
			res = minimalResult(mode)
		}
		s.emit(ctx, events.EndpointGenerateHints, string(mode), string(res.Notice), attempts, start)
	}()

	if !s.cfg.Enabled {
		return disabledResult(mode, NoticeDisabled)
	}
	if !s.cfg.Configured {
		return disabledResult(mode, NoticeNotConfigured)
	}
	if s.gate.Flagged(ctx, req.TopicID+"\n\n"+req.Text) {
		return blockedResult()
	}

	system := s.prompts.Load(hintsPromptName)
	user := s.composer.Compose(req.TopicID, req.Text, req.PreviousAnswer, mode)

	raw, n, exhausted := s.invoker.GenerateHints(ctx, system, user)
	attempts = n

	res = Normalize(raw, mode, s.policy)
	if exhausted {
		res.Notice = NoticeProviderError
	}
	return res
}

// GradeQuiz grades a finished quiz round.
func (s *Service) GradeQuiz(ctx context.Context, req GradeQuizRequest) (res GradeQuizResult) {
	start := time.Now()
	attempts := 0
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("grade quiz failed to assemble; returning fallback", "panic", r)
			res = GradeQuizResult{Feedback: []string{"provider error"}, Notice: NoticeProviderError}
		}
		s.emit(ctx, events.EndpointGradeQuiz, "", string(res.Notice), attempts, start)
	}()

	if !s.cfg.Enabled {
		return GradeQuizResult{Feedback: []string{"LLM not configured"}, Notice: NoticeDisabled}
	}
	if !s.cfg.Configured {
		return GradeQuizResult{Feedback: []string{"LLM not configured"}, Notice: NoticeNotConfigured}
	}
	if s.gate.Flagged(ctx, strings.Join(req.Answers, "\n\n")) {
		return GradeQuizResult{Feedback: []string{"moderation blocked"}, Notice: NoticeModerationBlocked}
	}

	system := s.prompts.Load(gradePromptName)
	user, err := json.Marshal(map[string]any{"answers": req.Answers})
	if err != nil {
		return GradeQuizResult{Feedback: []string{"provider error"}, Notice: NoticeProviderError}
	}

	raw, n, err := s.invoker.GradeQuiz(ctx, system, string(user))
	attempts = n
	if err != nil {
		return GradeQuizResult{Feedback: []string{"provider error"}, Notice: NoticeProviderError}
	}
	return normalizeGrade(raw, s.policy)
}

func (s *Service) emit(ctx context.Context, endpoint events.Endpoint, mode, notice string, attempts int, start time.Time) {
	u := events.Usage{
		RequestID:  middleware.GetReqID(ctx),
		Endpoint:   endpoint,
		Mode:       mode,
		Notice:     notice,
		Attempts:   attempts,
		DurationMS: time.Since(start).Milliseconds(),
		At:         time.Now().UTC(),
	}
	if err := events.PublishWithRetry(ctx, s.events, u, 2, 100*time.Millisecond); err != nil {
		s.log.Debug("usage event dropped", "endpoint", endpoint, "err", err)
	}
}
