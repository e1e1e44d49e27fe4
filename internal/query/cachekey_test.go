package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lexweave/asklaw/internal/domain"
)

func TestBuildCacheKeyDeterministic(t *testing.T) {
	parts := []string{"prior question", "prior answer", "doc-1"}

	key1 := BuildCacheKey("what is estoppel", "gpt-4o", parts)
	key2 := BuildCacheKey("what is estoppel", "gpt-4o", parts)

	assert.Equal(t, key1, key2)
	assert.Equal(t, "what is estoppel|gpt-4o|prior question|prior answer|doc-1", key1)
}

func TestBuildCacheKeySensitivity(t *testing.T) {
	base := BuildCacheKey("what is estoppel", "gpt-4o", []string{"doc-1"})

	tests := []struct {
		name  string
		query string
		model string
		parts []string
	}{
		{"different_query", "what is estoppel?", "gpt-4o", []string{"doc-1"}},
		{"whitespace_matters", " what is estoppel", "gpt-4o", []string{"doc-1"}},
		{"different_model", "what is estoppel", "gpt-4o-mini", []string{"doc-1"}},
		{"different_docs", "what is estoppel", "gpt-4o", []string{"doc-2"}},
		{"extra_part", "what is estoppel", "gpt-4o", []string{"doc-1", "doc-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, BuildCacheKey(tt.query, tt.model, tt.parts))
		})
	}
}

func TestContextKeyParts(t *testing.T) {
	qctx := domain.QueryContext{
		ConversationHistory: []domain.ConversationTurn{
			{Query: "q1", Response: "a1"},
			{Query: "q2", Response: "a2"},
		},
		DocumentContext: []string{"doc-1", "doc-2"},
	}

	assert.Equal(t,
		[]string{"q1", "a1", "q2", "a2", "doc-1", "doc-2"},
		ContextKeyParts(qctx))
}

func TestContextKeyPartsEmpty(t *testing.T) {
	parts := ContextKeyParts(domain.QueryContext{})
	assert.Empty(t, parts)
}
