// Package query implements the query pipeline: classification, expansion,
// complexity estimation, and cache key construction. Everything here is
// deterministic keyword heuristics over the raw query text.
package query

import "github.com/lexweave/asklaw/internal/domain"

// followUpTemplates holds canned follow-up prompts per query type.
var followUpTemplates = map[domain.QueryType][]string{
	domain.QueryTypeResearch: {
		"Are there recent cases that distinguish this precedent?",
		"How do other jurisdictions treat this issue?",
	},
	domain.QueryTypeAnalysis: {
		"What are the strongest counterarguments?",
		"How would this analysis change under different facts?",
	},
	domain.QueryTypeContract: {
		"Which clauses carry the most risk here?",
		"What remedies are available on breach?",
	},
	domain.QueryTypeCitation: {
		"Is this authority still good law?",
		"What parallel citations exist?",
	},
	domain.QueryTypeSummary: {
		"Which points deserve a deeper look?",
		"What deadlines or obligations does this create?",
	},
}

// Processor runs the full pipeline over a single query. It holds no state.
type Processor struct{}

// NewProcessor creates a query processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// Process classifies, expands, and scores a query against its context.
// The result is consumed once per request and never stored.
func (p *Processor) Process(q string, qctx domain.QueryContext) domain.ProcessedQuery {
	queryType, confidence := Classify(q)
	concepts := ExtractConcepts(q)

	return domain.ProcessedQuery{
		OriginalQuery:       q,
		ExpandedQuery:       Expand(q, qctx),
		QueryType:           queryType,
		Confidence:          confidence,
		SuggestedFollowUps:  followUpTemplates[queryType],
		EstimatedComplexity: EstimateComplexity(q, concepts, len(qctx.ConversationHistory), len(qctx.DocumentContext)),
	}
}
