package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lexweave/asklaw/internal/cache"
	"github.com/lexweave/asklaw/internal/domain"
	"github.com/lexweave/asklaw/internal/llm"
	"github.com/lexweave/asklaw/internal/query"
)

// State is the phase of the session controller. A submission walks
// Idle -> Submitting -> (cache hit | ModelCall) -> Appending -> Idle; only
// one submission may be in flight at a time.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateModelCall  State = "model_call"
	StateAppending  State = "appending"
)

const failedQueryMessage = "I ran into a problem answering that question. Please try again."

// MessageStore persists appended messages. May be nil for in-memory-only
// conversations.
type MessageStore interface {
	SaveMessage(m *domain.Message) error
}

// AnalyticsSink receives one query event per request, success or failure.
type AnalyticsSink interface {
	Record(event *domain.QueryEvent)
}

// ConversationConfig tunes a conversation.
type ConversationConfig struct {
	HistoryDepth    int
	CacheTTL        time.Duration
	SuggestionDelay time.Duration
}

// DefaultConversationConfig returns the standard tuning: 5 history turns,
// 30-minute cache TTL, 1-second suggestion deferral.
func DefaultConversationConfig() ConversationConfig {
	return ConversationConfig{
		HistoryDepth:    5,
		CacheTTL:        cache.DefaultTTL,
		SuggestionDelay: time.Second,
	}
}

// Conversation owns the append-only message log for one session and drives
// the request lifecycle. The log and the cumulative cost are mutated only
// under the conversation mutex; messages are immutable once appended.
type Conversation struct {
	mu        sync.Mutex
	id        string
	state     State
	messages  []*domain.Message
	totalCost float64

	processor *query.Processor
	cache     *cache.ResponseCache
	model     llm.ModelClient
	suggester llm.SuggestionClient
	store     MessageStore
	analytics AnalyticsSink
	logger    *zap.Logger
	cfg       ConversationConfig

	tasks sync.WaitGroup
}

// NewConversation creates a conversation for the given session id. store
// and analytics may be nil.
func NewConversation(
	id string,
	processor *query.Processor,
	responseCache *cache.ResponseCache,
	model llm.ModelClient,
	suggester llm.SuggestionClient,
	store MessageStore,
	analytics AnalyticsSink,
	logger *zap.Logger,
	cfg ConversationConfig,
) *Conversation {
	if cfg.HistoryDepth <= 0 {
		cfg.HistoryDepth = 5
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = cache.DefaultTTL
	}
	return &Conversation{
		id:        id,
		state:     StateIdle,
		processor: processor,
		cache:     responseCache,
		model:     model,
		suggester: suggester,
		store:     store,
		analytics: analytics,
		logger:    logger,
		cfg:       cfg,
	}
}

// Restore preloads a persisted message log. Only valid before the first
// submission.
func (c *Conversation) Restore(messages []*domain.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append([]*domain.Message(nil), messages...)
	for _, m := range messages {
		c.totalCost += m.Metadata.CostUSD
	}
}

// Submit runs one request through the session lifecycle. An empty or
// whitespace-only query returns ErrEmptyQuery and leaves the log
// untouched; a submission while another is in flight returns
// ErrConversationBusy (dropped, not queued). A model-call failure is
// recovered locally: a system message is appended, a zero-valued analytics
// event is recorded, and the returned response carries the apology with
// zero confidence.
func (c *Conversation) Submit(ctx context.Context, text, model string, activeDocIDs []string) (*domain.ChatResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyQuery
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil, domain.ErrConversationBusy
	}
	c.state = StateSubmitting

	userMsg := domain.NewUserMessage(c.id, text)
	c.messages = append(c.messages, userMsg)
	qctx := c.buildContextLocked(activeDocIDs)
	c.mu.Unlock()

	// The guard must clear even if the model client panics or the request
	// errors out; otherwise the session would reject all further input.
	defer func() {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
	}()

	c.persist(userMsg)

	start := time.Now()
	key := query.BuildCacheKey(text, model, query.ContextKeyParts(qctx))

	var (
		result    *domain.ModelResult
		processed domain.ProcessedQuery
		cached    bool
	)

	if hit, ok := c.cache.Get(ctx, key); ok {
		result = hit
		cached = true
		// Classification still runs for the analytics record; only the
		// model call is skipped.
		processed = c.processor.Process(text, qctx)
	} else {
		processed = c.processor.Process(text, qctx)

		c.setState(StateModelCall)
		res, err := c.model.Invoke(ctx, llm.InvokeRequest{
			Query:     processed.ExpandedQuery,
			QueryType: processed.QueryType,
			Model:     model,
			Context:   qctx,
		})
		if err != nil {
			return c.failSubmission(text, model, processed, qctx, start, err), nil
		}
		result = res
		c.cache.Set(ctx, key, *result, c.cfg.CacheTTL)
	}

	elapsedMs := time.Since(start).Milliseconds()

	c.setState(StateAppending)
	aiMsg := domain.NewAIMessage(c.id, result, elapsedMs)
	c.mu.Lock()
	c.messages = append(c.messages, aiMsg)
	c.totalCost += result.CostUSD
	c.mu.Unlock()
	c.persist(aiMsg)

	c.recordEvent(&domain.QueryEvent{
		QueryID:             uuid.New().String(),
		Query:               text,
		ResponseTimeMs:      elapsedMs,
		TokensUsed:          result.TokensUsed,
		CostUSD:             result.CostUSD,
		Confidence:          result.Confidence,
		Timestamp:           time.Now(),
		Model:               model,
		QueryType:           processed.QueryType,
		Complexity:          processed.EstimatedComplexity,
		DocumentContextSize: len(qctx.DocumentContext),
	})

	c.scheduleSuggestions(text)

	return &domain.ChatResponse{
		SessionID:        c.id,
		MessageID:        aiMsg.ID,
		Answer:           result.Answer,
		Confidence:       result.Confidence,
		Sources:          result.Sources,
		QueryType:        processed.QueryType,
		Complexity:       processed.EstimatedComplexity,
		Cached:           cached,
		CostUSD:          result.CostUSD,
		ProcessingTimeMs: elapsedMs,
	}, nil
}

// failSubmission handles the model-call failure path: system message,
// zero-valued analytics event, graceful response.
func (c *Conversation) failSubmission(text, model string, processed domain.ProcessedQuery, qctx domain.QueryContext, start time.Time, cause error) *domain.ChatResponse {
	c.logger.Error("model call failed", zap.String("session_id", c.id), zap.Error(cause))

	elapsedMs := time.Since(start).Milliseconds()

	c.setState(StateAppending)
	sysMsg := domain.NewSystemMessage(c.id, failedQueryMessage)
	c.mu.Lock()
	c.messages = append(c.messages, sysMsg)
	c.mu.Unlock()
	c.persist(sysMsg)

	c.recordEvent(&domain.QueryEvent{
		QueryID:             uuid.New().String(),
		Query:               text,
		ResponseTimeMs:      elapsedMs,
		TokensUsed:          0,
		CostUSD:             0,
		Confidence:          0,
		Timestamp:           time.Now(),
		Model:               model,
		QueryType:           processed.QueryType,
		Complexity:          processed.EstimatedComplexity,
		DocumentContextSize: len(qctx.DocumentContext),
	})

	return &domain.ChatResponse{
		SessionID:        c.id,
		MessageID:        sysMsg.ID,
		Answer:           failedQueryMessage,
		Confidence:       0,
		QueryType:        processed.QueryType,
		Complexity:       processed.EstimatedComplexity,
		CostUSD:          0,
		ProcessingTimeMs: elapsedMs,
	}
}

// scheduleSuggestions fires the deferred follow-up task. Failures are
// logged and swallowed; the task never affects the main lifecycle. The
// suggestion message may interleave with a later turn if the user submits
// again quickly, which is accepted behavior.
func (c *Conversation) scheduleSuggestions(text string) {
	c.tasks.Add(1)
	go func() {
		defer c.tasks.Done()

		time.Sleep(c.cfg.SuggestionDelay)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		suggestions, err := c.suggester.Suggest(ctx, text, c.recentContent(4))
		if err != nil {
			c.logger.Warn("suggestion generation failed",
				zap.String("session_id", c.id), zap.Error(err))
			return
		}
		if len(suggestions) == 0 {
			return
		}

		msg := domain.NewSuggestionMessage(c.id, suggestions)
		c.mu.Lock()
		c.messages = append(c.messages, msg)
		c.mu.Unlock()
		c.persist(msg)
	}()
}

// Wait blocks until all detached suggestion tasks have finished.
func (c *Conversation) Wait() {
	c.tasks.Wait()
}

// Clear empties the message log and resets the cumulative cost.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.totalCost = 0
}

// ID returns the session id.
func (c *Conversation) ID() string {
	return c.id
}

// State returns the current lifecycle state.
func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Messages returns a snapshot of the message log in insertion order.
func (c *Conversation) Messages() []*domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*domain.Message(nil), c.messages...)
}

// TotalCost returns the cumulative cost of the session in USD.
func (c *Conversation) TotalCost() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalCost
}

// buildContextLocked assembles the ephemeral query context from the last
// HistoryDepth completed turns. Caller must hold c.mu.
func (c *Conversation) buildContextLocked(activeDocIDs []string) domain.QueryContext {
	var turns []domain.ConversationTurn
	pending := ""
	for _, m := range c.messages {
		switch m.Type {
		case domain.MessageTypeUser:
			pending = m.Content
		case domain.MessageTypeAI:
			if pending != "" {
				turns = append(turns, domain.ConversationTurn{
					Query:     pending,
					Response:  m.Content,
					Timestamp: m.Timestamp,
				})
				pending = ""
			}
		}
	}
	if len(turns) > c.cfg.HistoryDepth {
		turns = turns[len(turns)-c.cfg.HistoryDepth:]
	}

	return domain.QueryContext{
		ConversationHistory: turns,
		DocumentContext:     append([]string(nil), activeDocIDs...),
		UserPreferences:     domain.UserPreferences{AnalysisDepth: "standard"},
	}
}

// recentContent returns the content of the most recent n messages, oldest
// first, for the suggestion prompt.
func (c *Conversation) recentContent(n int) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	startIdx := len(c.messages) - n
	if startIdx < 0 {
		startIdx = 0
	}
	var recent []string
	for _, m := range c.messages[startIdx:] {
		recent = append(recent, m.Content)
	}
	return recent
}

func (c *Conversation) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Conversation) persist(m *domain.Message) {
	if c.store == nil {
		return
	}
	if err := c.store.SaveMessage(m); err != nil {
		c.logger.Warn("failed to persist message",
			zap.String("session_id", c.id),
			zap.String("message_id", m.ID),
			zap.Error(err))
	}
}

func (c *Conversation) recordEvent(event *domain.QueryEvent) {
	if c.analytics == nil {
		return
	}
	c.analytics.Record(event)
}
