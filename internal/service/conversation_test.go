package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lexweave/asklaw/internal/cache"
	"github.com/lexweave/asklaw/internal/domain"
	"github.com/lexweave/asklaw/internal/llm"
	"github.com/lexweave/asklaw/internal/query"
)

type fakeModel struct {
	mu      sync.Mutex
	calls   int
	lastReq llm.InvokeRequest
	delay   time.Duration
	err     error
	answer  string
	costUSD float64
}

func (f *fakeModel) Invoke(_ context.Context, req llm.InvokeRequest) (*domain.ModelResult, error) {
	f.mu.Lock()
	f.calls++
	f.lastReq = req
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ModelResult{
		AIResult: domain.AIResult{
			Answer:     f.answer,
			Confidence: 0.85,
		},
		Model:      req.Model,
		TokensUsed: 100,
		CostUSD:    f.costUSD,
	}, nil
}

func (f *fakeModel) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeModel) lastRequest() llm.InvokeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq
}

type fakeSuggester struct {
	suggestions []domain.Suggestion
	err         error
}

func (f *fakeSuggester) Suggest(_ context.Context, _ string, _ []string) ([]domain.Suggestion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.suggestions, nil
}

type fakeSink struct {
	mu     sync.Mutex
	events []*domain.QueryEvent
}

func (f *fakeSink) Record(event *domain.QueryEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeSink) recorded() []*domain.QueryEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.QueryEvent(nil), f.events...)
}

func testConfig() ConversationConfig {
	return ConversationConfig{
		HistoryDepth:    5,
		CacheTTL:        cache.DefaultTTL,
		SuggestionDelay: time.Millisecond,
	}
}

func newTestConversation(model *fakeModel, sink AnalyticsSink) *Conversation {
	return NewConversation(
		"session-1",
		query.NewProcessor(),
		cache.New(nil, zap.NewNop()),
		model,
		&fakeSuggester{},
		nil,
		sink,
		zap.NewNop(),
		testConfig(),
	)
}

func messagesByType(msgs []*domain.Message, t domain.MessageType) []*domain.Message {
	var out []*domain.Message
	for _, m := range msgs {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

func TestSubmitAppendsUserThenAI(t *testing.T) {
	model := &fakeModel{answer: "the answer", costUSD: 0.01}
	conv := newTestConversation(model, nil)

	resp, err := conv.Submit(context.Background(), "What is consideration in contract law?", "gpt-4o", nil)
	require.NoError(t, err)
	conv.Wait()

	assert.Equal(t, "the answer", resp.Answer)
	assert.False(t, resp.Cached)
	assert.Equal(t, StateIdle, conv.State())

	msgs := conv.Messages()
	require.GreaterOrEqual(t, len(msgs), 2)
	assert.Equal(t, domain.MessageTypeUser, msgs[0].Type)
	assert.Equal(t, "What is consideration in contract law?", msgs[0].Content)
	assert.Equal(t, domain.MessageTypeAI, msgs[1].Type)
	assert.Equal(t, "the answer", msgs[1].Content)
	assert.Equal(t, "gpt-4o", msgs[1].Metadata.Model)
}

func TestSubmitEmptyQueryRejected(t *testing.T) {
	model := &fakeModel{answer: "unused"}
	conv := newTestConversation(model, nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := conv.Submit(context.Background(), text, "gpt-4o", nil)
		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	}

	assert.Empty(t, conv.Messages())
	assert.Equal(t, 0, model.callCount())
}

func TestCacheHitSkipsModelCall(t *testing.T) {
	model := &fakeModel{answer: "cached answer", costUSD: 0.02}
	shared := cache.New(nil, zap.NewNop())

	newConv := func(id string) *Conversation {
		return NewConversation(id, query.NewProcessor(), shared, model,
			&fakeSuggester{}, nil, nil, zap.NewNop(), testConfig())
	}

	conv1 := newConv("session-1")
	resp1, err := conv1.Submit(context.Background(), "define estoppel", "gpt-4o", []string{"doc-1"})
	require.NoError(t, err)
	conv1.Wait()

	// Same text, model, empty history, and doc set in a second session:
	// identical cache key, so the model is not re-invoked.
	conv2 := newConv("session-2")
	resp2, err := conv2.Submit(context.Background(), "define estoppel", "gpt-4o", []string{"doc-1"})
	require.NoError(t, err)
	conv2.Wait()

	assert.Equal(t, 1, model.callCount())
	assert.False(t, resp1.Cached)
	assert.True(t, resp2.Cached)
	assert.Equal(t, resp1.Answer, resp2.Answer)

	// Cost still accrues on the hit path.
	assert.InDelta(t, 0.02, conv2.TotalCost(), 1e-9)
}

func TestHistoryChangesCacheKey(t *testing.T) {
	model := &fakeModel{answer: "answer"}
	conv := newTestConversation(model, nil)

	_, err := conv.Submit(context.Background(), "define estoppel", "gpt-4o", nil)
	require.NoError(t, err)
	conv.Wait()

	// Same text again, but the history now contains a completed turn, so
	// the derived key differs and the model is invoked again.
	_, err = conv.Submit(context.Background(), "define estoppel", "gpt-4o", nil)
	require.NoError(t, err)
	conv.Wait()

	assert.Equal(t, 2, model.callCount())
}

func TestSubmitWhileInFlightIsDropped(t *testing.T) {
	model := &fakeModel{answer: "slow answer", delay: 150 * time.Millisecond}
	conv := newTestConversation(model, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := conv.Submit(context.Background(), "first question", "gpt-4o", nil)
		assert.NoError(t, err)
	}()

	// Wait until the first submission holds the guard.
	require.Eventually(t, func() bool {
		return conv.State() != StateIdle
	}, time.Second, 5*time.Millisecond)

	_, err := conv.Submit(context.Background(), "second question", "gpt-4o", nil)
	assert.ErrorIs(t, err, domain.ErrConversationBusy)

	<-done
	conv.Wait()

	// The dropped submission left no trace: one user message, one response.
	msgs := conv.Messages()
	assert.Len(t, messagesByType(msgs, domain.MessageTypeUser), 1)
	assert.Len(t, messagesByType(msgs, domain.MessageTypeAI), 1)
	assert.Equal(t, 1, model.callCount())
}

func TestModelFailureRecoversGracefully(t *testing.T) {
	model := &fakeModel{err: errors.New("upstream unavailable")}
	sink := &fakeSink{}
	conv := newTestConversation(model, sink)

	resp, err := conv.Submit(context.Background(), "doomed question", "gpt-4o", nil)
	require.NoError(t, err)

	assert.Equal(t, failedQueryMessage, resp.Answer)
	assert.Zero(t, resp.Confidence)
	assert.Zero(t, resp.CostUSD)

	msgs := conv.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.MessageTypeUser, msgs[0].Type)
	assert.Equal(t, domain.MessageTypeSystem, msgs[1].Type)
	assert.Equal(t, failedQueryMessage, msgs[1].Content)

	// The analytics event is recorded with zeroed metrics.
	events := sink.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "doomed question", events[0].Query)
	assert.Zero(t, events[0].TokensUsed)
	assert.Zero(t, events[0].CostUSD)
	assert.Zero(t, events[0].Confidence)

	// The guard is released: the next submission goes through.
	model.mu.Lock()
	model.err = nil
	model.answer = "recovered"
	model.mu.Unlock()

	resp, err = conv.Submit(context.Background(), "follow-up", "gpt-4o", nil)
	require.NoError(t, err)
	conv.Wait()
	assert.Equal(t, "recovered", resp.Answer)
}

func TestCostAccumulatesAndClearResets(t *testing.T) {
	model := &fakeModel{answer: "answer", costUSD: 0.01}
	conv := newTestConversation(model, nil)

	queries := []string{"first question", "second question", "third question"}
	for _, q := range queries {
		_, err := conv.Submit(context.Background(), q, "gpt-4o", nil)
		require.NoError(t, err)
	}
	conv.Wait()

	assert.InDelta(t, 0.03, conv.TotalCost(), 1e-9)

	conv.Clear()
	assert.Zero(t, conv.TotalCost())
	assert.Empty(t, conv.Messages())
}

func TestSuggestionsAppendedAfterResponse(t *testing.T) {
	model := &fakeModel{answer: "answer"}
	suggester := &fakeSuggester{suggestions: []domain.Suggestion{
		{Query: "What about related precedent?"},
	}}
	conv := NewConversation("session-1", query.NewProcessor(),
		cache.New(nil, zap.NewNop()), model, suggester, nil, nil,
		zap.NewNop(), testConfig())

	_, err := conv.Submit(context.Background(), "a question", "gpt-4o", nil)
	require.NoError(t, err)
	conv.Wait()

	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, domain.MessageTypeSuggestion, msgs[2].Type)
	require.Len(t, msgs[2].Suggestions, 1)
	assert.Equal(t, "What about related precedent?", msgs[2].Suggestions[0].Query)
}

func TestSuggestionFailureIsSwallowed(t *testing.T) {
	model := &fakeModel{answer: "answer"}
	suggester := &fakeSuggester{err: errors.New("suggestion model down")}
	conv := NewConversation("session-1", query.NewProcessor(),
		cache.New(nil, zap.NewNop()), model, suggester, nil, nil,
		zap.NewNop(), testConfig())

	_, err := conv.Submit(context.Background(), "a question", "gpt-4o", nil)
	require.NoError(t, err)
	conv.Wait()

	// No suggestion message, and the conversation is still usable.
	assert.Len(t, conv.Messages(), 2)
	_, err = conv.Submit(context.Background(), "another question", "gpt-4o", nil)
	assert.NoError(t, err)
	conv.Wait()
}

func TestRestorePreloadsLogAndCost(t *testing.T) {
	model := &fakeModel{answer: "answer", costUSD: 0.01}
	conv := newTestConversation(model, nil)

	prior := []*domain.Message{
		domain.NewUserMessage("session-1", "old question"),
		domain.NewAIMessage("session-1", &domain.ModelResult{
			AIResult: domain.AIResult{Answer: "old answer", Confidence: 0.9},
			Model:    "gpt-4o",
			CostUSD:  0.05,
		}, 120),
	}
	conv.Restore(prior)

	assert.Len(t, conv.Messages(), 2)
	assert.InDelta(t, 0.05, conv.TotalCost(), 1e-9)

	_, err := conv.Submit(context.Background(), "new question", "gpt-4o", nil)
	require.NoError(t, err)
	conv.Wait()
	assert.InDelta(t, 0.06, conv.TotalCost(), 1e-9)
}

func TestHistoryWindowCapped(t *testing.T) {
	model := &fakeModel{answer: "answer"}
	conv := newTestConversation(model, nil)

	for i := 0; i < 7; i++ {
		_, err := conv.Submit(context.Background(),
			"question number "+strings.Repeat("x", i+1), "gpt-4o", nil)
		require.NoError(t, err)
	}
	conv.Wait()

	req := model.lastRequest()
	assert.Len(t, req.Context.ConversationHistory, 5)
	// The oldest retained turn is the second completed one.
	assert.Equal(t, "question number xx", req.Context.ConversationHistory[0].Query)
}

func TestUnconscionabilityScenario(t *testing.T) {
	model := &fakeModel{answer: "Unconscionability is a contract defense.", costUSD: 0.004}
	sink := &fakeSink{}
	conv := newTestConversation(model, sink)

	resp, err := conv.Submit(context.Background(), "What is unconscionability?", "gpt-4o", nil)
	require.NoError(t, err)
	conv.Wait()

	// No legal keywords match, so classification falls back to research.
	assert.Equal(t, domain.QueryTypeResearch, resp.QueryType)
	assert.Equal(t, domain.ComplexityLow, resp.Complexity)
	assert.False(t, resp.Cached)

	// Expansion appended the jurisdiction hint before the model call.
	req := model.lastRequest()
	assert.Equal(t,
		"What is unconscionability? (considering federal and applicable state law)",
		req.Query)
	assert.Equal(t, domain.QueryTypeResearch, req.QueryType)

	events := sink.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, domain.QueryTypeResearch, events[0].QueryType)
	assert.InDelta(t, 0.004, events[0].CostUSD, 1e-9)
}
