package tutor

import (
	"strconv"
	"strings"
)

// normalizeGrade clamps and coerces the raw grading object into the outgoing
// contract: score in [0,100], feedback capped at the policy maximum.
func normalizeGrade(raw map[string]any, p Policy) GradeQuizResult {
	score := clampScore(raw["score"])

	feedback := []string{}
	if items, ok := raw["feedback"].([]any); ok {
		for _, item := range items {
			s := strings.TrimSpace(coerceString(item))
			if s == "" {
				continue
			}
			feedback = append(feedback, s)
			if len(feedback) >= p.GradeMaxFeedback {
				break
			}
		}
	}

	return GradeQuizResult{Score: score, Feedback: feedback}
}

func clampScore(v any) int {
	var score int
	switch t := v.(type) {
	case float64:
		score = int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			score = n
		}
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
