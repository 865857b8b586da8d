package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"studiebot-llm/internal/cache"
	"studiebot-llm/internal/events"
	"studiebot-llm/internal/llm"
)

type staticComposer struct{}

func (staticComposer) Compose(topicID, text, previousAnswer string, mode Mode) string {
	return topicID + "|" + text
}

type staticPrompts struct{}

func (staticPrompts) Load(name string) string { return "systeemprompt voor " + name }

func newTestService(cfg ServiceConfig, gen *llm.MockGenerator, mod *llm.MockModerator, pub events.Publisher) *Service {
	policy := fastPolicy()
	gate := NewGate(mod, cache.NewNoOpCache(), policy, testLog())
	invoker := NewInvoker(gen, gen, policy, testLog())
	if pub == nil {
		pub = events.Noop{}
	}
	return NewService(cfg, gate, invoker, staticComposer{}, staticPrompts{}, pub, policy, testLog())
}

func TestServiceDisabled(t *testing.T) {
	gen := new(llm.MockGenerator)
	mod := new(llm.MockModerator)
	svc := newTestService(ServiceConfig{Enabled: false, Configured: true}, gen, mod, nil)

	res := svc.GenerateHints(context.Background(), GenerateHintsRequest{TopicID: "t1", Text: "hallo", Mode: ModeLearn})

	if res.Notice != NoticeDisabled {
		t.Errorf("notice = %q, want %q", res.Notice, NoticeDisabled)
	}
	if !res.Notice.LLMDisabled() {
		t.Error("LLMDisabled() = false")
	}
	if res.TutorMessage == "" || !strings.HasSuffix(res.FollowUpQuestion.Text, "?") {
		t.Errorf("fallback content not well formed: %+v", res)
	}
	mod.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestServiceNotConfigured(t *testing.T) {
	gen := new(llm.MockGenerator)
	mod := new(llm.MockModerator)
	svc := newTestService(ServiceConfig{Enabled: true, Configured: false}, gen, mod, nil)

	res := svc.GenerateHints(context.Background(), GenerateHintsRequest{TopicID: "t1", Text: "hallo"})

	if res.Notice != NoticeNotConfigured {
		t.Errorf("notice = %q, want %q", res.Notice, NoticeNotConfigured)
	}
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestServiceModerationBlocked(t *testing.T) {
	gen := new(llm.MockGenerator)
	mod := new(llm.MockModerator)
	// The gate sees topic and text joined, never the bare text.
	mod.On("Classify", mock.Anything, "t1\n\nfoute tekst").
		Return(classification("violence", true, 0.97), nil).Once()

	svc := newTestService(ServiceConfig{Enabled: true, Configured: true}, gen, mod, nil)
	res := svc.GenerateHints(context.Background(), GenerateHintsRequest{TopicID: "t1", Text: "foute tekst"})

	if res.Notice != NoticeModerationBlocked {
		t.Errorf("notice = %q, want %q", res.Notice, NoticeModerationBlocked)
	}
	if res.TutorMessage != blockedMessage {
		t.Errorf("tutor_message = %q, want refusal copy", res.TutorMessage)
	}
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mod.AssertExpectations(t)
}

func TestServiceGenerateHintsSuccess(t *testing.T) {
	gen := new(llm.MockGenerator)
	gen.On("Generate", mock.Anything, "systeemprompt voor generate_hints.yaml", "t1|leg uit", mock.Anything).
		Return(`{"tutor_message":"Goede uitleg van het begrip, ga zo door.",`+
			`"follow_up_question":"Waarom was de stoommachine belangrijk voor de industrie?",`+
			`"hint":"Denk aan de stoommachine in de industrie."}`, nil).Once()
	mod := new(llm.MockModerator)
	mod.On("Classify", mock.Anything, mock.Anything).
		Return(llm.Classification{}, nil).Once()

	pub := new(events.MockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(u events.Usage) bool {
		return u.Endpoint == events.EndpointGenerateHints && u.Attempts == 1 && u.Notice == ""
	})).Return(nil).Once()

	svc := newTestService(ServiceConfig{Enabled: true, Configured: true}, gen, mod, pub)
	res := svc.GenerateHints(context.Background(), GenerateHintsRequest{TopicID: "t1", Text: "leg uit", Mode: ModeLearn})

	if res.Notice != "" {
		t.Errorf("notice = %q, want empty", res.Notice)
	}
	if res.Hint == nil {
		t.Fatal("hint missing on success path")
	}
	gen.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestServiceHintsProviderErrorNotice(t *testing.T) {
	gen := new(llm.MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("provider down")).Times(3)
	mod := new(llm.MockModerator)
	mod.On("Classify", mock.Anything, mock.Anything).Return(llm.Classification{}, nil)

	svc := newTestService(ServiceConfig{Enabled: true, Configured: true}, gen, mod, nil)
	res := svc.GenerateHints(context.Background(), GenerateHintsRequest{TopicID: "t1", Text: "hallo"})

	if res.Notice != NoticeProviderError {
		t.Errorf("notice = %q, want %q", res.Notice, NoticeProviderError)
	}
	if res.TutorMessage != terminalMessage {
		t.Errorf("tutor_message = %q, want terminal fallback", res.TutorMessage)
	}
	if !strings.HasSuffix(res.FollowUpQuestion.Text, "?") {
		t.Errorf("follow_up_question = %q", res.FollowUpQuestion.Text)
	}
}

func TestServiceInvalidModeDefaultsToLearn(t *testing.T) {
	gen := new(llm.MockGenerator)
	mod := new(llm.MockModerator)
	svc := newTestService(ServiceConfig{Enabled: false, Configured: true}, gen, mod, nil)

	res := svc.GenerateHints(context.Background(), GenerateHintsRequest{TopicID: "t1", Text: "x", Mode: "examen"})
	if res.FollowUpQuestion.Text != questionLearn {
		t.Errorf("follow_up_question = %q, want learn fallback", res.FollowUpQuestion.Text)
	}
}

func TestServiceGradeQuizSuccess(t *testing.T) {
	gen := new(llm.MockGenerator)
	gen.On("Generate", mock.Anything, "systeemprompt voor grade_quiz.yaml", mock.MatchedBy(func(u string) bool {
		return strings.Contains(u, `"answers"`)
	}), mock.Anything).
		Return(`{"score":140,"feedback":["Let op jaartallen.","  ","Lees de vraag goed."]}`, nil).Once()
	mod := new(llm.MockModerator)
	mod.On("Classify", mock.Anything, "antwoord een\n\nantwoord twee").
		Return(llm.Classification{}, nil).Once()

	svc := newTestService(ServiceConfig{Enabled: true, Configured: true}, gen, mod, nil)
	res := svc.GradeQuiz(context.Background(), GradeQuizRequest{Answers: []string{"antwoord een", "antwoord twee"}})

	if res.Notice != "" {
		t.Errorf("notice = %q, want empty", res.Notice)
	}
	if res.Score != 100 {
		t.Errorf("score = %d, want clamped 100", res.Score)
	}
	if len(res.Feedback) != 2 {
		t.Errorf("feedback = %v, want blank entries dropped", res.Feedback)
	}
	gen.AssertExpectations(t)
}

func TestServiceGradeQuizDegradedPaths(t *testing.T) {
	tests := []struct {
		name   string
		cfg    ServiceConfig
		notice Notice
	}{
		{"disabled", ServiceConfig{Enabled: false, Configured: true}, NoticeDisabled},
		{"not configured", ServiceConfig{Enabled: true, Configured: false}, NoticeNotConfigured},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(llm.MockGenerator)
			mod := new(llm.MockModerator)
			svc := newTestService(tt.cfg, gen, mod, nil)

			res := svc.GradeQuiz(context.Background(), GradeQuizRequest{Answers: []string{"a"}})
			if res.Notice != tt.notice {
				t.Errorf("notice = %q, want %q", res.Notice, tt.notice)
			}
			if len(res.Feedback) == 0 {
				t.Error("feedback is empty")
			}
			gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestServiceGradeQuizProviderError(t *testing.T) {
	gen := new(llm.MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("provider down")).Times(3)
	mod := new(llm.MockModerator)
	mod.On("Classify", mock.Anything, mock.Anything).Return(llm.Classification{}, nil)

	svc := newTestService(ServiceConfig{Enabled: true, Configured: true}, gen, mod, nil)
	res := svc.GradeQuiz(context.Background(), GradeQuizRequest{Answers: []string{"a"}})

	if res.Notice != NoticeProviderError {
		t.Errorf("notice = %q, want %q", res.Notice, NoticeProviderError)
	}
	if res.Score != 0 {
		t.Errorf("score = %d, want 0", res.Score)
	}
}

func TestServiceEmitsUsageOnDegradedPath(t *testing.T) {
	gen := new(llm.MockGenerator)
	mod := new(llm.MockModerator)
	pub := new(events.MockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(u events.Usage) bool {
		return u.Endpoint == events.EndpointGenerateHints && u.Notice == string(NoticeDisabled)
	})).Return(nil).Once()

	svc := newTestService(ServiceConfig{Enabled: false, Configured: true}, gen, mod, pub)
	svc.GenerateHints(context.Background(), GenerateHintsRequest{TopicID: "t1", Text: "x"})
	pub.AssertExpectations(t)
}
