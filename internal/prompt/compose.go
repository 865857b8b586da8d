package prompt

import (
	"strings"

	"studiebot-llm/internal/tutor"
)

// Composer renders the user message for a tutoring turn as a labelled block
// the model can parse reliably.
type Composer struct{}

func NewComposer() Composer { return Composer{} }

func (Composer) Compose(topicID, text, previousAnswer string, mode tutor.Mode) string {
	var b strings.Builder
	b.WriteString("Onderwerp: ")
	b.WriteString(topicID)
	b.WriteString("\n")

	switch mode {
	case tutor.ModeQuiz:
		b.WriteString("Modus: overhoren\n")
	default:
		b.WriteString("Modus: leren\n")
	}

	if previousAnswer != "" {
		b.WriteString("Vorig antwoord van de leerling: ")
		b.WriteString(previousAnswer)
		b.WriteString("\n")
	}

	b.WriteString("Nieuwe invoer van de leerling: ")
	b.WriteString(text)
	b.WriteString("\n\n")

	switch mode {
	case tutor.ModeQuiz:
		b.WriteString("Beoordeel kort of het antwoord van de leerling klopt en stel daarna de volgende overhoorvraag over het onderwerp.\n")
	default:
		b.WriteString("Geef korte bemoedigende feedback of uitleg en stel daarna precies een vervolgvraag die het begrip verdiept.\n")
	}

	b.WriteString("Denk eraan: tutor_message bevat geen vragen, follow_up_question bevat precies een vraag en hint hoort alleen bij die vraag.")
	return b.String()
}
