package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"studiebot-llm/internal/app"
	"studiebot-llm/internal/httputil"
	"studiebot-llm/internal/tutor"
)

const (
	// llmStateHeader tells the client whether structured fields carry model
	// output ("enabled") or canned fallbacks ("disabled").
	llmStateHeader = "X-Studiebot-LLM"
	// emojiModeHeader is an opaque client preference, echoed back untouched.
	emojiModeHeader = "X-Emoji-Mode"
)

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	r := httputil.NewRouter(deps.Log)
	r.Post("/api/llm/generate-hints", generateHintsHandler(deps))
	r.Post("/api/llm/grade-quiz", gradeQuizHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("tutor service listening", "addr", addr, "llm_enabled", deps.Config.LLMEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("tutor service stopped", "err", err)
	}
}

func generateHintsHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tutor.GenerateHintsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		if !req.Mode.Valid() {
			req.Mode = tutor.ModeLearn
		}

		res := deps.Tutor.GenerateHints(r.Context(), req)

		setResponseHeaders(w, r, res.Notice)
		httputil.WriteJSON(w, http.StatusOK, res)
	}
}

func gradeQuizHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tutor.GradeQuizRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		res := deps.Tutor.GradeQuiz(r.Context(), req)

		setResponseHeaders(w, r, res.Notice)
		httputil.WriteJSON(w, http.StatusOK, res)
	}
}

// setResponseHeaders applies the degradation marker and echoes the emoji
// preference. Degraded results still answer 200; the notice and this header
// are the only signals.
func setResponseHeaders(w http.ResponseWriter, r *http.Request, notice tutor.Notice) {
	state := "enabled"
	if notice.LLMDisabled() {
		state = "disabled"
	}
	w.Header().Set(llmStateHeader, state)
	if mode := r.Header.Get(emojiModeHeader); mode != "" {
		w.Header().Set(emojiModeHeader, mode)
	}
}
