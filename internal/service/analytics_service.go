package service

import (
	"sync"

	"go.uber.org/zap"

	"github.com/lexweave/asklaw/internal/domain"
	"github.com/lexweave/asklaw/internal/repository"
)

// maxRecentEvents caps the in-memory event history; older entries are
// dropped, the durable log keeps everything.
const maxRecentEvents = 100

// AnalyticsService is the analytics sink: it keeps a capped in-memory
// window of recent query events and writes every event through to storage.
type AnalyticsService struct {
	repo   *repository.AnalyticsRepository
	logger *zap.Logger

	mu     sync.Mutex
	recent []*domain.QueryEvent
}

// NewAnalyticsService creates a new analytics service. repo may be nil for
// memory-only operation.
func NewAnalyticsService(repo *repository.AnalyticsRepository, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, logger: logger}
}

// Record stores a query event. Storage failures are logged, never
// propagated to the request path.
func (s *AnalyticsService) Record(event *domain.QueryEvent) {
	s.mu.Lock()
	s.recent = append(s.recent, event)
	if len(s.recent) > maxRecentEvents {
		s.recent = s.recent[len(s.recent)-maxRecentEvents:]
	}
	s.mu.Unlock()

	if s.repo == nil {
		return
	}
	if err := s.repo.Save(event); err != nil {
		s.logger.Warn("failed to persist analytics event",
			zap.String("query_id", event.QueryID), zap.Error(err))
	}
}

// Recent returns up to limit recent events, newest first.
func (s *AnalyticsService) Recent(limit int) []*domain.QueryEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.recent) {
		limit = len(s.recent)
	}
	out := make([]*domain.QueryEvent, 0, limit)
	for i := len(s.recent) - 1; i >= len(s.recent)-limit; i-- {
		out = append(out, s.recent[i])
	}
	return out
}

// TotalCost returns the cumulative recorded cost across all events.
func (s *AnalyticsService) TotalCost() float64 {
	if s.repo != nil {
		if total, err := s.repo.TotalCost(); err == nil {
			return total
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, e := range s.recent {
		total += e.CostUSD
	}
	return total
}
