package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lexweave/asklaw/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected domain.QueryType
	}{
		{
			name:     "contract_keywords",
			query:    "Does this contract clause constitute a breach of the agreement?",
			expected: domain.QueryTypeContract,
		},
		{
			name:     "analysis_keywords",
			query:    "Analyze the implications of this ruling for our client",
			expected: domain.QueryTypeAnalysis,
		},
		{
			name:     "research_keywords",
			query:    "Find precedent and case law on qualified immunity",
			expected: domain.QueryTypeResearch,
		},
		{
			name:     "citation_keywords",
			query:    "Cite this opinion in Bluebook format",
			expected: domain.QueryTypeCitation,
		},
		{
			name:     "summary_keywords",
			query:    "Summarize the key points of this deposition",
			expected: domain.QueryTypeSummary,
		},
		{
			name:     "no_match_defaults_to_research",
			query:    "What is unconscionability?",
			expected: domain.QueryTypeResearch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queryType, _ := Classify(tt.query)
			assert.Equal(t, tt.expected, queryType)
		})
	}
}

func TestClassifyDefaultConfidence(t *testing.T) {
	queryType, confidence := Classify("What is unconscionability?")

	assert.Equal(t, domain.QueryTypeResearch, queryType)
	assert.Equal(t, 0.3, confidence)
}

func TestClassifyConfidenceRescaling(t *testing.T) {
	// "breach" matches exactly one of the eight contract keywords, so the
	// raw score is 1/8 and confidence is 0.1 + 0.9/8.
	queryType, confidence := Classify("breach")

	assert.Equal(t, domain.QueryTypeContract, queryType)
	assert.InDelta(t, 0.1+0.9/8.0, confidence, 1e-9)
}

func TestClassifyTieBreaksByDeclarationOrder(t *testing.T) {
	// One keyword each from contract ("breach") and research ("precedent"):
	// both sets have eight keywords, so the scores tie and the earlier
	// declaration (contract) wins.
	queryType, _ := Classify("breach precedent")

	assert.Equal(t, domain.QueryTypeContract, queryType)
}

func TestClassifyMonotonicity(t *testing.T) {
	// More contract matches than any other category's matches.
	queryType, confidence := Classify(
		"review the agreement for breach of warranty and indemnification clause issues")

	assert.Equal(t, domain.QueryTypeContract, queryType)
	assert.Greater(t, confidence, 0.3)
	assert.LessOrEqual(t, confidence, 1.0)
}
