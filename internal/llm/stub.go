package llm

import "context"

// StubGenerator returns a fixed well-formed JSON payload without calling any
// provider. Used for local runs with LLM_PROVIDER=stub.
type StubGenerator struct{}

func (StubGenerator) Generate(_ context.Context, _, _ string, _ GenerateOptions) (string, error) {
	return `{"tutor_message":"Je bent goed bezig met dit onderwerp. Probeer de kernbegrippen in je eigen woorden te benoemen.",` +
		`"follow_up_question":"Kun je de belangrijkste kernbegrippen van dit onderwerp in je eigen woorden uitleggen?",` +
		`"hint":"Gebruik de kernbegrippen uit de tekst en leg ze uit in je eigen woorden."}`, nil
}

// StubModerator never flags anything.
type StubModerator struct{}

func (StubModerator) Classify(_ context.Context, _ string) (Classification, error) {
	return Classification{
		Categories:     map[string]bool{},
		CategoryScores: map[string]float64{},
	}, nil
}
