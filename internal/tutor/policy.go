package tutor

import "time"

// Policy bundles the tunable normalization and pipeline parameters. The
// values started as literal constants tuned by trial in an earlier version of
// the service; naming them keeps tuning independent of the normalization
// logic.
type Policy struct {
	// Tutor message
	TutorMaxWords int // truncate by whole words above this
	TutorMinLen   int // below this, substitute the canned acknowledgement

	// Follow-up question
	FollowUpMinLen   int
	FollowUpMinWords int
	FollowUpMaxWords int

	// Hint
	HintRelevanceThreshold float64 // below this, the hint is dropped
	HintDefaultRelevance   float64 // used when either token set is empty

	// Safety gate
	ModerationConfidence float64 // scores must exceed this to count
	ModerationTimeout    time.Duration

	// Provider invoker
	Backoff      []time.Duration // delay before each attempt; len = attempt budget
	HintsTimeout time.Duration
	GradeTimeout time.Duration

	// Quiz grading
	GradeMaxFeedback int

	// Stopwords removed before computing hint relevance.
	Stopwords map[string]struct{}
}

// DefaultPolicy returns the production defaults.
func DefaultPolicy() Policy {
	return Policy{
		TutorMaxWords:          80,
		TutorMinLen:            12,
		FollowUpMinLen:         15,
		FollowUpMinWords:       4,
		FollowUpMaxWords:       25,
		HintRelevanceThreshold: 0.3,
		HintDefaultRelevance:   0.05,
		ModerationConfidence:   0.8,
		ModerationTimeout:      10 * time.Second,
		Backoff:                []time.Duration{0, 250 * time.Millisecond, 800 * time.Millisecond},
		HintsTimeout:           10 * time.Second,
		GradeTimeout:           20 * time.Second,
		GradeMaxFeedback:       10,
		Stopwords:              defaultStopwords(),
	}
}

// defaultStopwords lists common short Dutch function words, including the
// interrogatives, so relevance scoring compares content words only.
func defaultStopwords() map[string]struct{} {
	words := []string{
		"de", "het", "een", "en", "of", "maar", "want", "dus", "ook", "niet",
		"wel", "bij", "voor", "na", "met", "zonder", "op", "in", "aan", "van",
		"tot", "als", "dan", "die", "dat", "dit", "deze", "daar", "hier", "er",
		"te", "ten", "per", "zoals", "door", "over", "onder", "tussen", "om",
		"je", "jij", "jouw", "we", "wij", "ons", "onze", "ze", "zij", "hun",
		"ik", "mijn", "is", "was", "zijn", "werd", "worden", "wordt", "heeft",
		"hebben", "had", "kan", "kun", "zal", "zou", "moet", "mag", "al",
		"nog", "zo", "geen", "omdat", "waardoor", "daarom",
		"wat", "waarom", "hoe", "welk", "welke", "wie", "waar", "wanneer",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// seriousCategories are the moderation categories that can block a request.
// Everything else is deliberately tolerated so casual or informal language
// does not trip the gate.
var seriousCategories = []string{
	"harassment/threatening",
	"hate",
	"self-harm",
	"sexual/minors",
	"violence",
}
