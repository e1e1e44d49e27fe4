package domain

import "time"

// Matter represents a legal matter: the workspace that owns chat sessions
// and the set of documents attached as background context.
type Matter struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Client      string    `json:"client,omitempty"`
	DocumentIDs []string  `json:"document_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateMatterRequest is the request to create a matter.
type CreateMatterRequest struct {
	Name        string   `json:"name" binding:"required"`
	Client      string   `json:"client,omitempty"`
	DocumentIDs []string `json:"document_ids,omitempty"`
}

// UpdateMatterRequest is the request to update a matter.
type UpdateMatterRequest struct {
	Name        string   `json:"name,omitempty"`
	Client      string   `json:"client,omitempty"`
	DocumentIDs []string `json:"document_ids,omitempty"`
}
