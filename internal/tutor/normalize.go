package tutor

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Normalize applies the quality contract to raw provider output. It is a pure
// function over (raw, mode, policy): every substitution is deterministic, so
// identical malformed input yields identical fallback text. Only the
// follow-up question id differs between calls.
//
// Guarantees on the result, regardless of input:
//   - tutor message is non-empty and contains no question mark
//   - follow-up question ends with ? and meets the minimum length
//   - hint is absent, or is a single sentence above the relevance threshold
func Normalize(raw map[string]any, mode Mode, p Policy) GenerateHintsResult {
	if !mode.Valid() {
		mode = ModeLearn
	}

	rawTutor := coerceString(raw["tutor_message"])
	rawQuestion := coerceString(raw["follow_up_question"])
	rawHint := coerceString(raw["hint"])

	msg := stripQuestions(rawTutor)
	if utf8.RuneCountInString(strings.TrimSpace(msg)) < p.TutorMinLen {
		msg = cannedAck(mode, rawTutor)
	}
	msg = truncateWords(msg, p.TutorMaxWords)

	question := newFollowUp(normalizeQuestion(rawQuestion, mode, p))
	hint := normalizeHint(rawHint, question, p)

	return GenerateHintsResult{
		TutorMessage:     msg,
		FollowUpQuestion: question,
		Hint:             hint,
	}
}

// interrogativeStarts mark a sentence as a question even without a trailing
// question mark. This is approximate, not a parser; missed questions are
// caught by the final scrub, and over-removal falls back to the canned
// acknowledgement.
var (
	interrogativeStarts   = map[string]struct{}{"wat": {}, "waarom": {}, "hoe": {}, "welk": {}, "welke": {}, "wie": {}, "waar": {}, "wanneer": {}}
	interrogativePrefixes = []string{"kun je ", "kan je ", "kun jij ", "kan jij ", "zou je ", "wil je ", "weet je "}
)

// stripQuestions removes question clauses from a tutor message: sentences
// ending in ?, sentences opening with a Dutch interrogative, and finally any
// stray question mark left inside a kept sentence.
func stripQuestions(s string) string {
	var kept []string
	for _, sentence := range splitSentences(s) {
		if strings.HasSuffix(sentence, "?") {
			continue
		}
		if startsInterrogative(sentence) {
			continue
		}
		kept = append(kept, sentence)
	}
	return strings.ReplaceAll(strings.Join(kept, " "), "?", ".")
}

func startsInterrogative(sentence string) bool {
	lower := strings.ToLower(strings.TrimSpace(sentence))
	for _, prefix := range interrogativePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	fields := strings.Fields(lower)
	if len(fields) == 0 {
		return false
	}
	first := strings.Trim(fields[0], ",.;:!\"'")
	_, ok := interrogativeStarts[first]
	return ok
}

// splitSentences cuts on terminal punctuation, keeping the punctuation with
// its sentence. Approximate: abbreviations split too, which is acceptable
// here.
func splitSentences(s string) []string {
	var out []string
	var b strings.Builder
	for _, r := range s {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if t := strings.TrimSpace(b.String()); t != "" {
				out = append(out, t)
			}
			b.Reset()
		}
	}
	if t := strings.TrimSpace(b.String()); t != "" {
		out = append(out, t)
	}
	return out
}

// truncateWords caps s at max whole words. Already-short input is returned
// unchanged.
func truncateWords(s string, max int) string {
	words := strings.Fields(s)
	if len(words) <= max {
		return s
	}
	return strings.Join(words[:max], " ")
}

var (
	labelPrefix  = regexp.MustCompile(`(?i)^\s*(volgende vraag|volgende|vraag)\s*[:\-–—]\s*`)
	numberPrefix = regexp.MustCompile(`^\s*\d+[.)]\s*`)
	bulletPrefix = regexp.MustCompile(`^\s*[-•*]\s*`)
)

// normalizeQuestion coerces the raw follow-up into exactly one well-formed
// question, substituting the mode-specific canned question when the provider
// text is too short or incomplete to trust.
func normalizeQuestion(raw string, mode Mode, p Policy) string {
	q := strings.TrimSpace(raw)
	q = labelPrefix.ReplaceAllString(q, "")
	q = numberPrefix.ReplaceAllString(q, "")
	q = bulletPrefix.ReplaceAllString(q, "")
	q = strings.TrimSpace(q)

	words := strings.Fields(q)
	if utf8.RuneCountInString(q) < p.FollowUpMinLen || len(words) < p.FollowUpMinWords {
		return cannedQuestion(mode)
	}
	if len(words) > p.FollowUpMaxWords {
		q = strings.Join(words[:p.FollowUpMaxWords], " ")
	}
	q = strings.TrimRight(q, " .,;:!")
	if !strings.HasSuffix(q, "?") {
		q += "?"
	}
	return q
}

// normalizeHint reduces the raw hint to its first sentence and keeps it only
// when it is relevant to the question it would accompany. Omission beats
// misleading content.
func normalizeHint(raw string, question FollowUpQuestion, p Policy) *Hint {
	h := strings.TrimSpace(raw)
	if utf8.RuneCountInString(h) < 3 {
		return nil
	}
	sentence := firstSentence(h)
	if Relevance(sentence, question.Text, p) < p.HintRelevanceThreshold {
		return nil
	}
	return &Hint{ForQuestionID: question.ID, Text: sentence}
}

// firstSentence returns the text up to and including the first terminal
// punctuation mark, appending a period when there is none.
func firstSentence(s string) string {
	if idx := strings.IndexAny(s, ".!?"); idx >= 0 {
		return strings.TrimSpace(s[:idx+1])
	}
	return strings.TrimSpace(s) + "."
}

// coerceString turns any decoded JSON value into plain text. Maps prefer a
// "text" field and otherwise join values in key order, keeping the coercion
// deterministic.
func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		var parts []string
		for _, elem := range t {
			if s := coerceString(elem); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case map[string]any:
		if s, ok := t["text"].(string); ok {
			return s
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var parts []string
		for _, k := range keys {
			if s := coerceString(t[k]); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprintf("%v", t)
	}
}
