package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lexweave/asklaw/internal/domain"
)

// MatterRepository handles matter persistence
type MatterRepository struct {
	db *DB
}

// NewMatterRepository creates a new matter repository
func NewMatterRepository(db *DB) *MatterRepository {
	return &MatterRepository{db: db}
}

// Create creates a new matter
func (r *MatterRepository) Create(matter *domain.Matter) error {
	if matter.ID == "" {
		matter.ID = uuid.New().String()
	}
	now := time.Now()
	matter.CreatedAt = now
	matter.UpdatedAt = now

	documentIDsJSON, _ := json.Marshal(matter.DocumentIDs)

	_, err := r.db.Exec(`
		INSERT INTO matters (id, name, client, document_ids, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, matter.ID, matter.Name, matter.Client, string(documentIDsJSON),
		matter.CreatedAt, matter.UpdatedAt)

	return err
}

// Get retrieves a matter by ID
func (r *MatterRepository) Get(id string) (*domain.Matter, error) {
	matter := &domain.Matter{}
	var client sql.NullString
	var documentIDsJSON string

	err := r.db.QueryRow(`
		SELECT id, name, client, document_ids, created_at, updated_at
		FROM matters WHERE id = ?
	`, id).Scan(&matter.ID, &matter.Name, &client, &documentIDsJSON,
		&matter.CreatedAt, &matter.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if client.Valid {
		matter.Client = client.String
	}
	json.Unmarshal([]byte(documentIDsJSON), &matter.DocumentIDs)

	return matter, nil
}

// List retrieves all matters
func (r *MatterRepository) List() ([]*domain.Matter, error) {
	rows, err := r.db.Query(`
		SELECT id, name, client, document_ids, created_at, updated_at
		FROM matters ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matters []*domain.Matter
	for rows.Next() {
		matter := &domain.Matter{}
		var client sql.NullString
		var documentIDsJSON string

		if err := rows.Scan(&matter.ID, &matter.Name, &client, &documentIDsJSON,
			&matter.CreatedAt, &matter.UpdatedAt); err != nil {
			return nil, err
		}
		if client.Valid {
			matter.Client = client.String
		}
		json.Unmarshal([]byte(documentIDsJSON), &matter.DocumentIDs)
		matters = append(matters, matter)
	}

	return matters, rows.Err()
}

// Update updates a matter
func (r *MatterRepository) Update(matter *domain.Matter) error {
	matter.UpdatedAt = time.Now()
	documentIDsJSON, _ := json.Marshal(matter.DocumentIDs)

	_, err := r.db.Exec(`
		UPDATE matters SET name = ?, client = ?, document_ids = ?, updated_at = ?
		WHERE id = ?
	`, matter.Name, matter.Client, string(documentIDsJSON), matter.UpdatedAt, matter.ID)

	return err
}

// Delete deletes a matter
func (r *MatterRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM matters WHERE id = ?`, id)
	return err
}

// Count returns the total number of matters
func (r *MatterRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM matters`).Scan(&count)
	return count, err
}
