package app

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/openai/openai-go/v3"

	"studiebot-llm/internal/cache"
	"studiebot-llm/internal/config"
	"studiebot-llm/internal/events"
	"studiebot-llm/internal/llm"
	"studiebot-llm/internal/logger"
	"studiebot-llm/internal/prompt"
	"studiebot-llm/internal/tutor"
)

// Deps bundles the runtime dependencies for the tutor service.
type Deps struct {
	Config config.Config
	Log    *slog.Logger
	Tutor  *tutor.Service

	verdicts cache.Cache
	events   events.Publisher
}

// Build loads env, config, and wires the pipeline.
func Build() (Deps, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	hintsGen, gradeGen, mod, err := buildProvider(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize provider: %w", err)
	}
	verdicts, err := buildVerdictCache(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize verdict cache: %w", err)
	}
	pub, err := buildEvents(cfg, log)
	if err != nil {
		verdicts.Close()
		return Deps{}, fmt.Errorf("failed to initialize event publisher: %w", err)
	}

	policy := buildPolicy(cfg)
	gate := tutor.NewGate(mod, verdicts, policy, log)
	invoker := tutor.NewInvoker(hintsGen, gradeGen, policy, log)
	svc := tutor.NewService(
		tutor.ServiceConfig{Enabled: cfg.LLMEnabled, Configured: cfg.Configured()},
		gate,
		invoker,
		prompt.NewComposer(),
		prompt.NewStore(log),
		pub,
		policy,
		log,
	)

	return Deps{
		Config:   cfg,
		Log:      log,
		Tutor:    svc,
		verdicts: verdicts,
		events:   pub,
	}, nil
}

// Close releases external connections.
func (d Deps) Close() {
	if d.events != nil {
		d.events.Close()
	}
	if d.verdicts != nil {
		if err := d.verdicts.Close(); err != nil {
			d.Log.Warn("verdict cache close failed", "err", err)
		}
	}
}

func buildProvider(cfg config.Config, log *slog.Logger) (hints, grade llm.Generator, mod llm.Moderator, err error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			// Runs degraded: every request answers with the not_configured
			// fallback until a key is provided.
			log.Warn("OPENAI_API_KEY is not set; responses degrade to canned fallbacks")
			return llm.StubGenerator{}, llm.StubGenerator{}, llm.StubModerator{}, nil
		}
		hintsGen, err := llm.NewOpenAIGenerator(cfg.OpenAIKey, openai.ChatModel(cfg.HintsModel))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize hints generator: %w", err)
		}
		gradeGen, err := llm.NewOpenAIGenerator(cfg.OpenAIKey, openai.ChatModel(cfg.GradeModel))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize grade generator: %w", err)
		}
		moderator, err := llm.NewOpenAIModerator(cfg.OpenAIKey, openai.ModerationModel(cfg.ModerationModel))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize moderator: %w", err)
		}
		log.Info("using OpenAI provider", "hints_model", cfg.HintsModel, "grade_model", cfg.GradeModel)
		return hintsGen, gradeGen, moderator, nil
	case "stub":
		log.Info("using stub provider")
		return llm.StubGenerator{}, llm.StubGenerator{}, llm.StubModerator{}, nil
	default:
		return nil, nil, nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: openai, stub)", cfg.LLMProvider)
	}
}

func buildVerdictCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	if cfg.RedisAddr == "" {
		return cache.NewNoOpCache(), nil
	}
	c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("using Redis verdict cache", "addr", cfg.RedisAddr)
	return c, nil
}

func buildEvents(cfg config.Config, log *slog.Logger) (events.Publisher, error) {
	if cfg.EventsURL == "" {
		return events.Noop{}, nil
	}
	nc, err := nats.Connect(cfg.EventsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Info("using NATS usage events", "url", cfg.EventsURL)
	return events.NewNATS(log, nc), nil
}

func buildPolicy(cfg config.Config) tutor.Policy {
	p := tutor.DefaultPolicy()
	if cfg.TutorMaxWords > 0 {
		p.TutorMaxWords = cfg.TutorMaxWords
	}
	if cfg.HintRelevanceThreshold > 0 {
		p.HintRelevanceThreshold = cfg.HintRelevanceThreshold
	}
	return p
}
