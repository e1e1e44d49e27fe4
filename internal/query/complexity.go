package query

import (
	"strings"

	"github.com/lexweave/asklaw/internal/domain"
)

// complexityKeywords each add one point to the complexity score, uncapped.
var complexityKeywords = []string{
	"analyze", "compare", "evaluate", "synthesize", "comprehensive",
	"multi-jurisdictional", "conflicting", "ambiguous",
}

// EstimateComplexity scores a query's estimated complexity. Pure function:
//
//	+2 if the query is longer than 200 chars, else +1 if longer than 100
//	+min(3, number of extracted legal concepts)
//	+1 if the conversation history has more than 5 turns
//	+1 if more than 2 documents are active
//	+1 per complexity keyword present
//
// score >= 6 is high, >= 3 is medium, otherwise low.
func EstimateComplexity(q string, concepts []string, historyTurns, activeDocs int) domain.Complexity {
	score := complexityScore(q, concepts, historyTurns, activeDocs)
	switch {
	case score >= 6:
		return domain.ComplexityHigh
	case score >= 3:
		return domain.ComplexityMedium
	default:
		return domain.ComplexityLow
	}
}

func complexityScore(q string, concepts []string, historyTurns, activeDocs int) int {
	score := 0

	switch {
	case len(q) > 200:
		score += 2
	case len(q) > 100:
		score++
	}

	conceptCount := len(concepts)
	if conceptCount > 3 {
		conceptCount = 3
	}
	score += conceptCount

	if historyTurns > 5 {
		score++
	}
	if activeDocs > 2 {
		score++
	}

	lower := strings.ToLower(q)
	for _, kw := range complexityKeywords {
		if strings.Contains(lower, kw) {
			score++
		}
	}

	return score
}
