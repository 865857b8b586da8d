package tutor

import (
	"strings"
	"unicode"
)

// Relevance computes the normalized token-overlap between a hint and the
// follow-up question it accompanies: |hint ∩ question| / |question| over
// lowercased, stopword-filtered tokens, clamped to [0,1]. When either token
// set is empty after filtering there is nothing to compare, and the fixed low
// default from the policy is returned.
func Relevance(hint, question string, p Policy) float64 {
	hintTokens := tokenize(hint, p.Stopwords)
	questionTokens := tokenize(question, p.Stopwords)
	if len(hintTokens) == 0 || len(questionTokens) == 0 {
		return p.HintDefaultRelevance
	}

	overlap := 0
	for tok := range questionTokens {
		if _, ok := hintTokens[tok]; ok {
			overlap++
		}
	}

	score := float64(overlap) / float64(len(questionTokens))
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// tokenize lowercases, splits on whitespace, strips punctuation from token
// edges, and removes stopwords.
func tokenize(s string, stopwords map[string]struct{}) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(s)) {
		tok := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if tok == "" {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		tokens[tok] = struct{}{}
	}
	return tokens
}
