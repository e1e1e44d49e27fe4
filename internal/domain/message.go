package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageType discriminates the message variants in a conversation log.
type MessageType string

const (
	MessageTypeUser       MessageType = "user"
	MessageTypeAI         MessageType = "ai"
	MessageTypeSystem     MessageType = "system"
	MessageTypeSuggestion MessageType = "suggestion"
)

// MessageMetadata is always present on a message; zeroed for non-AI variants.
type MessageMetadata struct {
	Model            string  `json:"model"`
	ProcessingTimeMs int64   `json:"processing_time_ms"`
	TokensUsed       int     `json:"tokens_used"`
	CostUSD          float64 `json:"cost_usd"`
}

// Source represents a citation source attached to an AI answer.
type Source struct {
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title"`
	Excerpt    string  `json:"excerpt,omitempty"`
	Score      float64 `json:"score"`
}

// AIResult is the answer payload of an assistant message.
type AIResult struct {
	Answer     string   `json:"answer"`
	Confidence float64  `json:"confidence"`
	Sources    []Source `json:"sources,omitempty"`
	Analysis   string   `json:"analysis,omitempty"`
}

// ModelResult is the full result of a model invocation. This is the unit
// stored in the response cache, so a cache hit can rebuild message metadata
// without re-invoking the model.
type ModelResult struct {
	AIResult
	Model      string  `json:"model"`
	TokensUsed int     `json:"tokens_used"`
	CostUSD    float64 `json:"cost_usd"`
}

// Suggestion is a candidate follow-up query with its reasoning.
type Suggestion struct {
	Query     string `json:"query"`
	Reasoning string `json:"reasoning,omitempty"`
}

// Message is one entry in the append-only conversation log. Exactly one of
// AIResponse/Suggestions is populated, matching Type; use the constructors
// below rather than building a Message by hand.
type Message struct {
	ID          string          `json:"id"`
	SessionID   string          `json:"session_id"`
	Type        MessageType     `json:"type"`
	Content     string          `json:"content"`
	Timestamp   time.Time       `json:"timestamp"`
	Metadata    MessageMetadata `json:"metadata"`
	AIResponse  *AIResult       `json:"ai_response,omitempty"`
	Suggestions []Suggestion    `json:"suggestions,omitempty"`
}

// NewUserMessage creates a user message.
func NewUserMessage(sessionID, content string) *Message {
	return &Message{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Type:      MessageTypeUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAIMessage creates an assistant message from a model result.
func NewAIMessage(sessionID string, result *ModelResult, processingTimeMs int64) *Message {
	answer := result.AIResult
	return &Message{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Type:      MessageTypeAI,
		Content:   result.Answer,
		Timestamp: time.Now(),
		Metadata: MessageMetadata{
			Model:            result.Model,
			ProcessingTimeMs: processingTimeMs,
			TokensUsed:       result.TokensUsed,
			CostUSD:          result.CostUSD,
		},
		AIResponse: &answer,
	}
}

// NewSystemMessage creates a system message (errors, notices).
func NewSystemMessage(sessionID, content string) *Message {
	return &Message{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Type:      MessageTypeSystem,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewSuggestionMessage creates a follow-up suggestion message.
func NewSuggestionMessage(sessionID string, suggestions []Suggestion) *Message {
	return &Message{
		ID:          uuid.New().String(),
		SessionID:   sessionID,
		Type:        MessageTypeSuggestion,
		Content:     "Suggested follow-up questions",
		Timestamp:   time.Now(),
		Suggestions: suggestions,
	}
}
