package domain

import "time"

// QueryEvent is the flat analytics record emitted once per request, for
// both successes and failures. Failed requests zero out tokens, cost, and
// confidence.
type QueryEvent struct {
	QueryID             string     `json:"query_id"`
	Query               string     `json:"query"`
	ResponseTimeMs      int64      `json:"response_time_ms"`
	TokensUsed          int        `json:"tokens_used"`
	CostUSD             float64    `json:"cost_usd"`
	Confidence          float64    `json:"confidence"`
	Timestamp           time.Time  `json:"timestamp"`
	Model               string     `json:"model"`
	QueryType           QueryType  `json:"query_type"`
	Complexity          Complexity `json:"complexity"`
	DocumentContextSize int        `json:"document_context_size"`
}

// Stats represents system statistics for the admin dashboard.
type Stats struct {
	TotalMatters   int     `json:"total_matters"`
	TotalDocuments int     `json:"total_documents"`
	TotalChats     int     `json:"total_chats"`
	TotalCostUSD   float64 `json:"total_cost_usd"`
	CacheHits      int     `json:"cache_hits"`
	CacheMisses    int     `json:"cache_misses"`
	CacheHitRate   float64 `json:"cache_hit_rate"`
}
