package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lexweave/asklaw/internal/domain"
)

// DocumentRepository handles document metadata persistence
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create registers a document
func (r *DocumentRepository) Create(doc *domain.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	tagsJSON, _ := json.Marshal(doc.Tags)
	metadataJSON, _ := json.Marshal(doc.Metadata)

	_, err := r.db.Exec(`
		INSERT INTO documents (id, title, doc_type, citation, tags, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Title, doc.DocType, doc.Citation, string(tagsJSON),
		string(metadataJSON), doc.CreatedAt, doc.UpdatedAt)

	return err
}

// Get retrieves a document by ID
func (r *DocumentRepository) Get(id string) (*domain.Document, error) {
	doc := &domain.Document{}
	var docType, citation, tagsJSON, metadataJSON sql.NullString

	err := r.db.QueryRow(`
		SELECT id, title, doc_type, citation, tags, metadata, created_at, updated_at
		FROM documents WHERE id = ?
	`, id).Scan(&doc.ID, &doc.Title, &docType, &citation, &tagsJSON,
		&metadataJSON, &doc.CreatedAt, &doc.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	doc.DocType = docType.String
	doc.Citation = citation.String
	if tagsJSON.Valid && tagsJSON.String != "" {
		json.Unmarshal([]byte(tagsJSON.String), &doc.Tags)
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		json.Unmarshal([]byte(metadataJSON.String), &doc.Metadata)
	}

	return doc, nil
}

// List retrieves all documents
func (r *DocumentRepository) List() ([]*domain.Document, error) {
	rows, err := r.db.Query(`
		SELECT id, title, doc_type, citation, tags, metadata, created_at, updated_at
		FROM documents ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc := &domain.Document{}
		var docType, citation, tagsJSON, metadataJSON sql.NullString

		if err := rows.Scan(&doc.ID, &doc.Title, &docType, &citation, &tagsJSON,
			&metadataJSON, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		doc.DocType = docType.String
		doc.Citation = citation.String
		if tagsJSON.Valid && tagsJSON.String != "" {
			json.Unmarshal([]byte(tagsJSON.String), &doc.Tags)
		}
		if metadataJSON.Valid && metadataJSON.String != "" {
			json.Unmarshal([]byte(metadataJSON.String), &doc.Metadata)
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// Update updates document metadata
func (r *DocumentRepository) Update(doc *domain.Document) error {
	doc.UpdatedAt = time.Now()
	tagsJSON, _ := json.Marshal(doc.Tags)
	metadataJSON, _ := json.Marshal(doc.Metadata)

	_, err := r.db.Exec(`
		UPDATE documents SET title = ?, doc_type = ?, citation = ?, tags = ?, metadata = ?, updated_at = ?
		WHERE id = ?
	`, doc.Title, doc.DocType, doc.Citation, string(tagsJSON),
		string(metadataJSON), doc.UpdatedAt, doc.ID)

	return err
}

// Delete removes a document
func (r *DocumentRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
	return err
}

// Count returns the total number of documents
func (r *DocumentRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}
