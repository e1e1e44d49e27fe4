package domain

import "time"

// QueryType is a coarse intent category for a legal question.
type QueryType string

const (
	QueryTypeResearch QueryType = "research"
	QueryTypeAnalysis QueryType = "analysis"
	QueryTypeContract QueryType = "contract"
	QueryTypeCitation QueryType = "citation"
	QueryTypeSummary  QueryType = "summary"
)

// Complexity is the estimated effort level of answering a query.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// ConversationTurn is one completed user/assistant exchange.
type ConversationTurn struct {
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// UserPreferences carries per-user tuning for a request.
type UserPreferences struct {
	PreferredModel string `json:"preferred_model,omitempty"`
	AnalysisDepth  string `json:"analysis_depth"`
}

// QueryContext is rebuilt from the conversation log on every submission and
// discarded when the request completes. ConversationHistory holds the most
// recent turns, oldest first.
type QueryContext struct {
	ConversationHistory []ConversationTurn `json:"conversation_history"`
	DocumentContext     []string           `json:"document_context"`
	UserPreferences     UserPreferences    `json:"user_preferences"`
}

// ProcessedQuery is the derived form of a single query: classified,
// expanded, and scored. Consumed once per request, never stored.
type ProcessedQuery struct {
	OriginalQuery       string     `json:"original_query"`
	ExpandedQuery       string     `json:"expanded_query"`
	QueryType           QueryType  `json:"query_type"`
	Confidence          float64    `json:"confidence"`
	SuggestedFollowUps  []string   `json:"suggested_follow_ups,omitempty"`
	EstimatedComplexity Complexity `json:"estimated_complexity"`
}

// CachedResponse is the persisted shape of a response cache entry.
type CachedResponse struct {
	Key       string      `json:"key"`
	Value     ModelResult `json:"value"`
	ExpiresAt time.Time   `json:"expires_at"`
}
