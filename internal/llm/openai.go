package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/lexweave/asklaw/internal/domain"
)

// systemPrompts steer the model per query type.
var systemPrompts = map[domain.QueryType]string{
	domain.QueryTypeResearch: "You are a legal research assistant. Answer with relevant authorities and precedent.",
	domain.QueryTypeAnalysis: "You are a legal analyst. Weigh arguments on both sides and state your assessment.",
	domain.QueryTypeContract: "You are a contracts specialist. Focus on clause language, obligations, and remedies.",
	domain.QueryTypeCitation: "You are a citation assistant. Provide accurate legal citations in Bluebook format.",
	domain.QueryTypeSummary:  "You are a legal summarizer. Condense the material into its key points.",
}

// modelPricing holds per-1K-token pricing in USD.
type modelPricing struct {
	Input  float64
	Output float64
}

var pricing = map[string]modelPricing{
	"gpt-4o":      {0.0025, 0.01},
	"gpt-4o-mini": {0.00015, 0.0006},
	"gpt-4-turbo": {0.01, 0.03},
}

// defaultPricing covers unknown and local models.
var defaultPricing = modelPricing{0.0005, 0.0015}

// OpenAIClient calls an OpenAI-compatible chat completion endpoint. With a
// custom base URL this also covers local Ollama deployments.
type OpenAIClient struct {
	client          *openai.Client
	suggestionModel string
	logger          *zap.Logger
}

// NewOpenAIClient creates a production model client.
func NewOpenAIClient(baseURL, apiKey, suggestionModel string, logger *zap.Logger) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client:          openai.NewClientWithConfig(cfg),
		suggestionModel: suggestionModel,
		logger:          logger,
	}
}

// Invoke sends the expanded query with its conversation history to the
// model and converts usage into token and cost accounting.
func (c *OpenAIClient) Invoke(ctx context.Context, req InvokeRequest) (*domain.ModelResult, error) {
	system, ok := systemPrompts[req.QueryType]
	if !ok {
		system = systemPrompts[domain.QueryTypeResearch]
	}
	if len(req.Context.DocumentContext) > 0 {
		system += " Consider the documents the user has marked as active: " +
			strings.Join(req.Context.DocumentContext, ", ") + "."
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
	}
	for _, turn := range req.Context.ConversationHistory {
		messages = append(messages,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: turn.Query},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: turn.Response},
		)
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: req.Query,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	choice := resp.Choices[0]
	confidence := 0.85
	if choice.FinishReason == openai.FinishReasonLength {
		// Truncated answers are less trustworthy.
		confidence = 0.6
	}

	return &domain.ModelResult{
		AIResult: domain.AIResult{
			Answer:     choice.Message.Content,
			Confidence: confidence,
		},
		Model:      req.Model,
		TokensUsed: resp.Usage.TotalTokens,
		CostUSD:    estimateCost(req.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
	}, nil
}

// Suggest asks the model for three follow-up questions and parses one per
// line.
func (c *OpenAIClient) Suggest(ctx context.Context, q string, recent []string) ([]domain.Suggestion, error) {
	prompt := fmt.Sprintf(
		"Given the legal question %q and this recent discussion:\n%s\n"+
			"Suggest 3 short follow-up questions, one per line, no numbering.",
		q, strings.Join(recent, "\n"))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.suggestionModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("suggestion completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, nil
	}

	var suggestions []domain.Suggestion
	for _, line := range strings.Split(resp.Choices[0].Message.Content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line == "" {
			continue
		}
		suggestions = append(suggestions, domain.Suggestion{
			Query:     line,
			Reasoning: "follow-up to: " + q,
		})
		if len(suggestions) == 3 {
			break
		}
	}
	return suggestions, nil
}

func estimateCost(model string, promptTokens, completionTokens int) float64 {
	p, ok := pricing[model]
	if !ok {
		p = defaultPricing
	}
	return float64(promptTokens)/1000*p.Input + float64(completionTokens)/1000*p.Output
}
