package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lexweave/asklaw/internal/domain"
)

func TestEstimateComplexity(t *testing.T) {
	// 250-char query with four scoring keywords: +2 length, +4 keywords = 6.
	longQuery := "analyze compare evaluate synthesize " + strings.Repeat("x ", 110)

	tests := []struct {
		name         string
		query        string
		concepts     []string
		historyTurns int
		activeDocs   int
		expected     domain.Complexity
	}{
		{
			name:     "short_query_no_signals_is_low",
			query:    "what is it",
			expected: domain.ComplexityLow,
		},
		{
			name:     "long_query_with_keywords_is_high",
			query:    longQuery,
			expected: domain.ComplexityHigh,
		},
		{
			name:     "concepts_push_to_medium",
			query:    "short",
			concepts: []string{"negligence", "duty of care", "proximate cause"},
			expected: domain.ComplexityMedium,
		},
		{
			name:         "history_and_docs_each_add_one",
			query:        "short",
			concepts:     []string{"negligence"},
			historyTurns: 6,
			activeDocs:   3,
			expected:     domain.ComplexityMedium,
		},
		{
			name:         "boundary_signals_do_not_count",
			query:        "short",
			historyTurns: 5,
			activeDocs:   2,
			expected:     domain.ComplexityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateComplexity(tt.query, tt.concepts, tt.historyTurns, tt.activeDocs)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestComplexityScoreLengthTiers(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		expected int
	}{
		{"at_100_no_points", 100, 0},
		{"over_100_one_point", 101, 1},
		{"at_200_one_point", 200, 1},
		{"over_200_two_points", 201, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := strings.Repeat("q", tt.length)
			assert.Equal(t, tt.expected, complexityScore(q, nil, 0, 0))
		})
	}
}

func TestComplexityScoreConceptCap(t *testing.T) {
	concepts := []string{"a", "b", "c", "d", "e"}
	assert.Equal(t, 3, complexityScore("short", concepts, 0, 0))
}
