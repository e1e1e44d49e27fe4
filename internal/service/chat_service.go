package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/lexweave/asklaw/internal/cache"
	"github.com/lexweave/asklaw/internal/config"
	"github.com/lexweave/asklaw/internal/domain"
	"github.com/lexweave/asklaw/internal/llm"
	"github.com/lexweave/asklaw/internal/query"
	"github.com/lexweave/asklaw/internal/repository"
)

// ChatService routes chat requests to per-session conversations. Each
// session gets one Conversation instance, created on first use and kept
// for the life of the process; persisted logs are restored so history
// survives restarts.
type ChatService struct {
	cfg         *config.Config
	matterRepo  *repository.MatterRepository
	sessionRepo *repository.SessionRepository
	processor   *query.Processor
	cache       *cache.ResponseCache
	model       llm.ModelClient
	suggester   llm.SuggestionClient
	analytics   *AnalyticsService
	logger      *zap.Logger

	mu            sync.Mutex
	conversations map[string]*Conversation
}

// NewChatService creates a new chat service
func NewChatService(
	cfg *config.Config,
	matterRepo *repository.MatterRepository,
	sessionRepo *repository.SessionRepository,
	responseCache *cache.ResponseCache,
	model llm.ModelClient,
	suggester llm.SuggestionClient,
	analytics *AnalyticsService,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		cfg:           cfg,
		matterRepo:    matterRepo,
		sessionRepo:   sessionRepo,
		processor:     query.NewProcessor(),
		cache:         responseCache,
		model:         model,
		suggester:     suggester,
		analytics:     analytics,
		logger:        logger,
		conversations: make(map[string]*Conversation),
	}
}

// Chat handles a chat message within a matter. Active document ids default
// to the matter's attached documents when the request does not name any.
func (s *ChatService) Chat(ctx context.Context, matterID string, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	matter, err := s.matterRepo.Get(matterID)
	if err != nil {
		return nil, err
	}
	if matter == nil {
		return nil, domain.ErrNotFound
	}

	sessionID := req.SessionID
	if sessionID == "" {
		session := &domain.Session{MatterID: matterID}
		if err := s.sessionRepo.Create(session); err != nil {
			return nil, err
		}
		sessionID = session.ID
	}

	conv, err := s.conversation(sessionID)
	if err != nil {
		return nil, err
	}

	docIDs := req.DocumentIDs
	if len(docIDs) == 0 {
		docIDs = matter.DocumentIDs
	}

	model := req.Model
	if model == "" {
		model = s.cfg.LLM.Model
	}

	resp, err := conv.Submit(ctx, req.Message, model, docIDs)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Update(sessionID); err != nil {
		s.logger.Warn("failed to touch session", zap.String("session_id", sessionID), zap.Error(err))
	}

	return resp, nil
}

// History returns the message log for a session.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]*domain.Message, error) {
	conv, err := s.conversation(sessionID)
	if err != nil {
		return nil, err
	}
	return conv.Messages(), nil
}

// Clear empties a session's conversation log and resets its cumulative
// cost, in memory and in storage.
func (s *ChatService) Clear(ctx context.Context, sessionID string) error {
	conv, err := s.conversation(sessionID)
	if err != nil {
		return err
	}
	conv.Clear()
	return s.sessionRepo.ClearMessages(sessionID)
}

// SessionCost returns the cumulative cost of a session in USD.
func (s *ChatService) SessionCost(sessionID string) (float64, error) {
	conv, err := s.conversation(sessionID)
	if err != nil {
		return 0, err
	}
	return conv.TotalCost(), nil
}

// Close drains all detached suggestion tasks.
func (s *ChatService) Close() {
	s.mu.Lock()
	conversations := make([]*Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		conversations = append(conversations, conv)
	}
	s.mu.Unlock()

	for _, conv := range conversations {
		conv.Wait()
	}
}

// conversation returns the Conversation for a session, creating and
// restoring it on first access.
func (s *ChatService) conversation(sessionID string) (*Conversation, error) {
	s.mu.Lock()
	if conv, ok := s.conversations[sessionID]; ok {
		s.mu.Unlock()
		return conv, nil
	}
	s.mu.Unlock()

	session, err := s.sessionRepo.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}

	messages, err := s.sessionRepo.GetMessages(sessionID)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConversationConfig()
	cfg.HistoryDepth = s.cfg.Session.HistoryDepth
	cfg.CacheTTL = s.cfg.Cache.TTL

	conv := NewConversation(sessionID, s.processor, s.cache, s.model,
		s.suggester, s.sessionRepo, s.analytics, s.logger, cfg)
	conv.Restore(messages)

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have created it meanwhile; keep the first.
	if existing, ok := s.conversations[sessionID]; ok {
		return existing, nil
	}
	s.conversations[sessionID] = conv
	return conv, nil
}
