package query

import (
	"strings"

	"github.com/lexweave/asklaw/internal/domain"
)

// categoryKeywords maps each query type to its keyword set. Scoring is
// matches/len(set); on a tie the earlier declaration wins, so order matters.
var categoryKeywords = []struct {
	Type     domain.QueryType
	Keywords []string
}{
	{domain.QueryTypeContract, []string{
		"contract", "agreement", "clause", "breach", "indemnif",
		"warranty", "consideration", "covenant",
	}},
	{domain.QueryTypeAnalysis, []string{
		"analyze", "analysis", "assess", "evaluate", "implications",
		"argument", "strength", "exposure",
	}},
	{domain.QueryTypeResearch, []string{
		"research", "precedent", "case law", "statute", "regulation",
		"authority", "ruling", "holding",
	}},
	{domain.QueryTypeCitation, []string{
		"cite", "citation", "bluebook", "reporter", "pincite", "shepardize",
	}},
	{domain.QueryTypeSummary, []string{
		"summarize", "summary", "overview", "key points", "condense", "digest",
	}},
}

// defaultConfidence is used when no keyword from any category matches.
const defaultConfidence = 0.3

// Classify categorizes a query by keyword matching. The raw score for a
// category is matches/|keywordSet|; the highest-scoring category wins and
// its confidence is rescaled to 0.1 + 0.9*rawScore. A query matching no
// category defaults to research with confidence 0.3.
//
// This is deliberately a bag-of-keywords heuristic, not a model; it keeps
// classification deterministic and reproducible.
func Classify(q string) (domain.QueryType, float64) {
	lower := strings.ToLower(q)

	bestType := domain.QueryTypeResearch
	bestScore := 0.0
	matched := false

	for _, cat := range categoryKeywords {
		matches := 0
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}
		score := float64(matches) / float64(len(cat.Keywords))
		if !matched || score > bestScore {
			bestType = cat.Type
			bestScore = score
			matched = true
		}
	}

	if !matched {
		return domain.QueryTypeResearch, defaultConfidence
	}
	return bestType, 0.1 + 0.9*bestScore
}
