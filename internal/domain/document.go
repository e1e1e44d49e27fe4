package domain

import "time"

// Document represents registered document metadata. The service treats
// document ids as opaque context identifiers; content indexing is handled
// elsewhere.
type Document struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	DocType   string         `json:"doc_type,omitempty"`
	Citation  string         `json:"citation,omitempty"`
	Tags      []string       `json:"tags,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CreateDocumentRequest is the request to register a document.
type CreateDocumentRequest struct {
	Title    string         `json:"title" binding:"required"`
	DocType  string         `json:"doc_type,omitempty"`
	Citation string         `json:"citation,omitempty"`
	Tags     []string       `json:"tags,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// UpdateDocumentRequest is the request to update document metadata.
type UpdateDocumentRequest struct {
	Title    string         `json:"title,omitempty"`
	DocType  string         `json:"doc_type,omitempty"`
	Citation string         `json:"citation,omitempty"`
	Tags     []string       `json:"tags,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
