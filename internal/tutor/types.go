package tutor

// Mode selects the prompt template and fallback copy.
type Mode string

const (
	ModeLearn Mode = "learn" // deepen understanding
	ModeQuiz  Mode = "quiz"  // test understanding
)

// Valid reports whether the mode is one of the known values.
func (m Mode) Valid() bool {
	return m == ModeLearn || m == ModeQuiz
}

// Notice is a machine-readable degradation signal. It is present only on
// degraded paths; the structured fields then carry fallback content rather
// than genuine model output.
type Notice string

const (
	NoticeDisabled          Notice = "LLM not configured"
	NoticeNotConfigured     Notice = "not_configured"
	NoticeModerationBlocked Notice = "moderation_blocked"
	NoticeProviderError     Notice = "provider_error"
)

// FollowUpQuestion is the single question posed to continue the interaction.
// The ID is freshly generated per response, never provider-supplied.
type FollowUpQuestion struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Hint is an optional single-sentence aid tied to the follow-up question.
type Hint struct {
	ForQuestionID string `json:"for_question_id"`
	Text          string `json:"text"`
}

// GenerateHintsRequest is one tutoring turn from the caller.
type GenerateHintsRequest struct {
	TopicID        string `json:"topicId" validate:"required"`
	Text           string `json:"text"`
	PreviousAnswer string `json:"previousAnswer,omitempty"`
	Mode           Mode   `json:"mode,omitempty" validate:"omitempty,oneof=learn quiz"`
}

// GenerateHintsResult is the structured tutoring response. Every path through
// the pipeline returns this shape; only the notice and placeholder content
// differ on degraded paths.
type GenerateHintsResult struct {
	TutorMessage     string           `json:"tutor_message"`
	FollowUpQuestion FollowUpQuestion `json:"follow_up_question"`
	Hint             *Hint            `json:"hint"`
	Notice           Notice           `json:"notice,omitempty"`
}

// GradeQuizRequest carries the answers of a finished quiz round.
type GradeQuizRequest struct {
	Answers []string `json:"answers" validate:"required"`
}

// GradeQuizResult is the grading outcome.
type GradeQuizResult struct {
	Score    int      `json:"score"`
	Feedback []string `json:"feedback"`
	Notice   Notice   `json:"notice,omitempty"`
}

// Degraded reports whether the result carries fallback content produced
// without a (successful) provider round trip.
func (r GenerateHintsResult) Degraded() bool {
	return r.Notice != ""
}

// LLMDisabled reports whether the notice signals that generation is off or
// unconfigured, which the HTTP surface maps to X-Studiebot-LLM: disabled.
func (n Notice) LLMDisabled() bool {
	return n == NoticeDisabled || n == NoticeNotConfigured
}
