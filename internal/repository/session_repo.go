package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lexweave/asklaw/internal/domain"
)

// messagePayload holds the variant-specific part of a message for storage.
type messagePayload struct {
	AIResponse  *domain.AIResult    `json:"ai_response,omitempty"`
	Suggestions []domain.Suggestion `json:"suggestions,omitempty"`
}

// SessionRepository handles session and message persistence
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session
func (r *SessionRepository) Create(session *domain.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO sessions (id, matter_id, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, session.ID, session.MatterID, session.CreatedAt, session.UpdatedAt)

	return err
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(id string) (*domain.Session, error) {
	session := &domain.Session{}
	var matterID sql.NullString

	err := r.db.QueryRow(`
		SELECT id, matter_id, created_at, updated_at
		FROM sessions WHERE id = ?
	`, id).Scan(&session.ID, &matterID, &session.CreatedAt, &session.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if matterID.Valid {
		session.MatterID = matterID.String
	}

	return session, nil
}

// Update updates a session's updated_at timestamp
func (r *SessionRepository) Update(id string) error {
	_, err := r.db.Exec(`UPDATE sessions SET updated_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

// SaveMessage appends a message to the session log
func (r *SessionRepository) SaveMessage(message *domain.Message) error {
	metadataJSON, _ := json.Marshal(message.Metadata)
	payloadJSON, _ := json.Marshal(messagePayload{
		AIResponse:  message.AIResponse,
		Suggestions: message.Suggestions,
	})

	_, err := r.db.Exec(`
		INSERT INTO messages (id, session_id, type, content, metadata, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, message.ID, message.SessionID, string(message.Type), message.Content,
		string(metadataJSON), string(payloadJSON), message.Timestamp)

	return err
}

// GetMessages retrieves all messages for a session in insertion order
func (r *SessionRepository) GetMessages(sessionID string) ([]*domain.Message, error) {
	rows, err := r.db.Query(`
		SELECT id, session_id, type, content, metadata, payload, created_at
		FROM messages WHERE session_id = ?
		ORDER BY created_at ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message := &domain.Message{}
		var msgType string
		var metadataJSON, payloadJSON sql.NullString

		if err := rows.Scan(&message.ID, &message.SessionID, &msgType,
			&message.Content, &metadataJSON, &payloadJSON, &message.Timestamp); err != nil {
			return nil, err
		}
		message.Type = domain.MessageType(msgType)

		if metadataJSON.Valid && metadataJSON.String != "" {
			json.Unmarshal([]byte(metadataJSON.String), &message.Metadata)
		}
		if payloadJSON.Valid && payloadJSON.String != "" {
			var payload messagePayload
			json.Unmarshal([]byte(payloadJSON.String), &payload)
			message.AIResponse = payload.AIResponse
			message.Suggestions = payload.Suggestions
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}

// ClearMessages removes all messages for a session
func (r *SessionRepository) ClearMessages(sessionID string) error {
	_, err := r.db.Exec(`DELETE FROM messages WHERE session_id = ?`, sessionID)
	return err
}

// CountChats returns the total number of user messages (chats)
func (r *SessionRepository) CountChats() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE type = 'user'`).Scan(&count)
	return count, err
}
