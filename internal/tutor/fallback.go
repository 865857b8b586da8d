package tutor

import (
	"strings"

	"github.com/google/uuid"
)

// All fallback copy is deterministic and mode-driven so identical malformed
// input always yields identical output. The copy is Dutch, matching the
// student-facing language of the service.

const (
	ackLearn       = "Goed bezig! Laten we samen verder gaan met dit onderwerp."
	ackQuizCorrect = "Goed zo, dat klopt helemaal. Op naar de volgende vraag."
	ackQuizRetry   = "Goed geprobeerd! Kijk nog eens rustig naar de stof."

	questionLearn = "Kun je in je eigen woorden uitleggen wat je hiervan hebt geleerd?"
	questionQuiz  = "Wat is volgens jou het belangrijkste begrip uit deze stof?"

	disabledMessage = "De studiehulp is op dit moment niet beschikbaar. Probeer het later opnieuw."
	blockedMessage  = "Daar kan ik helaas niet over praten. Laten we bij de leerstof blijven."
	blockedQuestion = "Verder?"
	minimalMessage  = "Laten we verder gaan met de leerstof."

	terminalMessage  = "We gaan gewoon door met het onderwerp. Je bent goed op weg, blijf oefenen met de stof."
	terminalQuestion = "Kun je in je eigen woorden samenvatten wat je tot nu toe hebt geleerd?"
)

// positiveSignals mark a correct answer in raw quiz-mode provider output.
var positiveSignals = []string{"goed", "juist", "klopt", "correct", "prima", "helemaal", "precies"}

// cannedAck returns the mode-specific substitute tutor message. In quiz mode
// the original raw text is scanned for correctness signals so the
// acknowledgement matches the verdict the model intended.
func cannedAck(mode Mode, raw string) string {
	if mode != ModeQuiz {
		return ackLearn
	}
	lower := strings.ToLower(raw)
	for _, signal := range positiveSignals {
		if strings.Contains(lower, signal) {
			return ackQuizCorrect
		}
	}
	return ackQuizRetry
}

// cannedQuestion returns the mode-specific substitute follow-up question.
func cannedQuestion(mode Mode) string {
	if mode == ModeQuiz {
		return questionQuiz
	}
	return questionLearn
}

// newFollowUp wraps text in a FollowUpQuestion with a fresh opaque id.
func newFollowUp(text string) FollowUpQuestion {
	return FollowUpQuestion{ID: uuid.NewString(), Text: text}
}

// disabledResult is returned before any external call when generation is off
// or unconfigured.
func disabledResult(mode Mode, notice Notice) GenerateHintsResult {
	return GenerateHintsResult{
		TutorMessage:     disabledMessage,
		FollowUpQuestion: newFollowUp(cannedQuestion(mode)),
		Notice:           notice,
	}
}

// blockedResult is returned when the safety gate flags the input.
func blockedResult() GenerateHintsResult {
	return GenerateHintsResult{
		TutorMessage:     blockedMessage,
		FollowUpQuestion: newFollowUp(blockedQuestion),
		Notice:           NoticeModerationBlocked,
	}
}

// minimalResult is the smallest valid shape, used when result construction
// itself fails.
func minimalResult(mode Mode) GenerateHintsResult {
	return GenerateHintsResult{
		TutorMessage:     minimalMessage,
		FollowUpQuestion: newFollowUp(cannedQuestion(mode)),
		Notice:           NoticeProviderError,
	}
}

// terminalRaw is the hard-coded raw object substituted when every provider
// attempt failed on the hints path. It flows through the normalizer like any
// provider output.
func terminalRaw() map[string]any {
	return map[string]any{
		"tutor_message":      terminalMessage,
		"follow_up_question": terminalQuestion,
	}
}
