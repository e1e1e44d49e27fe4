package query

import (
	"strings"

	"github.com/lexweave/asklaw/internal/domain"
)

const keySeparator = "|"

// BuildCacheKey derives a deterministic cache key from the query text, the
// model id, and the ordered context parts (history turns and active
// document ids). No normalization is applied: callers must pass
// already-normalized values, so two queries differing only in whitespace
// are cache-distinct.
func BuildCacheKey(q, modelID string, parts []string) string {
	elems := make([]string, 0, len(parts)+2)
	elems = append(elems, q, modelID)
	elems = append(elems, parts...)
	return strings.Join(elems, keySeparator)
}

// ContextKeyParts flattens a query context into the ordered string list
// that feeds BuildCacheKey: each history turn contributes its query and
// response, followed by the active document ids.
func ContextKeyParts(qctx domain.QueryContext) []string {
	parts := make([]string, 0, len(qctx.ConversationHistory)*2+len(qctx.DocumentContext))
	for _, turn := range qctx.ConversationHistory {
		parts = append(parts, turn.Query, turn.Response)
	}
	parts = append(parts, qctx.DocumentContext...)
	return parts
}
