package repository

import (
	"github.com/lexweave/asklaw/internal/domain"
)

// AnalyticsRepository persists per-request query events
type AnalyticsRepository struct {
	db *DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// Save stores a query event
func (r *AnalyticsRepository) Save(event *domain.QueryEvent) error {
	_, err := r.db.Exec(`
		INSERT INTO analytics_events
			(id, query, response_time_ms, tokens_used, cost_usd, confidence,
			 model, query_type, complexity, document_context_size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, event.QueryID, event.Query, event.ResponseTimeMs, event.TokensUsed,
		event.CostUSD, event.Confidence, event.Model, string(event.QueryType),
		string(event.Complexity), event.DocumentContextSize, event.Timestamp)

	return err
}

// Recent retrieves the most recent query events, newest first
func (r *AnalyticsRepository) Recent(limit int) ([]*domain.QueryEvent, error) {
	rows, err := r.db.Query(`
		SELECT id, query, response_time_ms, tokens_used, cost_usd, confidence,
		       model, query_type, complexity, document_context_size, created_at
		FROM analytics_events ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.QueryEvent
	for rows.Next() {
		event := &domain.QueryEvent{}
		var queryType, complexity string

		if err := rows.Scan(&event.QueryID, &event.Query, &event.ResponseTimeMs,
			&event.TokensUsed, &event.CostUSD, &event.Confidence, &event.Model,
			&queryType, &complexity, &event.DocumentContextSize, &event.Timestamp); err != nil {
			return nil, err
		}
		event.QueryType = domain.QueryType(queryType)
		event.Complexity = domain.Complexity(complexity)
		events = append(events, event)
	}

	return events, rows.Err()
}

// TotalCost returns the cumulative recorded cost in USD
func (r *AnalyticsRepository) TotalCost() (float64, error) {
	var total float64
	err := r.db.QueryRow(`SELECT COALESCE(SUM(cost_usd), 0) FROM analytics_events`).Scan(&total)
	return total, err
}
