package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized indicates unauthorized access
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited indicates rate limit exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrEmptyQuery indicates an empty or whitespace-only query
	ErrEmptyQuery = errors.New("query is empty")
	// ErrConversationBusy indicates a submission arrived while another is in flight
	ErrConversationBusy = errors.New("conversation is processing another request")
)
