package domain

import "time"

// Session represents a chat session within a matter.
type Session struct {
	ID        string    `json:"id"`
	MatterID  string    `json:"matter_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatRequest is the request to send a chat message.
type ChatRequest struct {
	SessionID   string   `json:"session_id,omitempty"`
	Message     string   `json:"message" binding:"required"`
	Model       string   `json:"model,omitempty"`
	DocumentIDs []string `json:"document_ids,omitempty"`
}

// ChatResponse is the response from a chat message.
type ChatResponse struct {
	SessionID        string     `json:"session_id"`
	MessageID        string     `json:"message_id"`
	Answer           string     `json:"answer"`
	Confidence       float64    `json:"confidence"`
	Sources          []Source   `json:"sources,omitempty"`
	QueryType        QueryType  `json:"query_type"`
	Complexity       Complexity `json:"complexity"`
	Cached           bool       `json:"cached"`
	CostUSD          float64    `json:"cost_usd"`
	ProcessingTimeMs int64      `json:"processing_time_ms"`
}
