// Package llm defines the model invocation boundary and its production
// implementation. The conversation service depends only on the interfaces
// here, so tests substitute canned clients without network access.
package llm

import (
	"context"

	"github.com/lexweave/asklaw/internal/domain"
)

// InvokeRequest carries an expanded query to the model.
type InvokeRequest struct {
	Query     string
	QueryType domain.QueryType
	Model     string
	Context   domain.QueryContext
}

// ModelClient invokes the model. Implementations must be assumed to be
// slow and fallible; callers own timeout and error handling.
type ModelClient interface {
	Invoke(ctx context.Context, req InvokeRequest) (*domain.ModelResult, error)
}

// SuggestionClient generates follow-up suggestions from a query and the
// recent conversation content. Best effort: failures are swallowed by the
// caller.
type SuggestionClient interface {
	Suggest(ctx context.Context, q string, recent []string) ([]domain.Suggestion, error)
}
