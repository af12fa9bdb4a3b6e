package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"castgraph/backend/internal/naming"
	apperrors "castgraph/backend/pkg/errors"
	"castgraph/backend/pkg/logger"
)

// NamePrompt is the system prompt of every name generation request.
const NamePrompt = `You are a fictional character name recommender. Recommend a fictional character name in double quote ("). Answer with reasons.`

// ChatCompleter is the slice of the OpenAI client the adapter uses.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// LLMAdapter generates character names through an OpenAI-compatible chat completion API
type LLMAdapter struct {
	client      ChatCompleter
	model       string
	maxTokens   int
	maxAttempts int
	backoff     time.Duration
	logger      *zap.Logger
}

// Options tunes an LLMAdapter.
type Options struct {
	Model       string
	MaxTokens   int
	MaxAttempts int
}

// NewLLMAdapter creates a new LLM adapter for the API at baseURL
func NewLLMAdapter(baseURL, apiKey string, opts Options) *LLMAdapter {
	// OpenAI-compatible proxies accept any key
	if apiKey == "" {
		apiKey = "dummy-key"
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}

	return NewLLMAdapterWithClient(openai.NewClientWithConfig(config), opts)
}

// NewLLMAdapterWithClient wraps an existing chat client.
func NewLLMAdapterWithClient(client ChatCompleter, opts Options) *LLMAdapter {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 512
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	return &LLMAdapter{
		client:      client,
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		maxAttempts: opts.MaxAttempts,
		backoff:     time.Second,
		logger:      logger.Named("llm"),
	}
}

// BuildMessages lays out the conversation sent to the model: the system prompt,
// then a summary of the character when there is anything to summarise, then the history.
func BuildMessages(req naming.Request) []openai.ChatCompletionMessage {
	capacity := len(req.Histories) + 1
	hasSummary := len(req.Characteristics) > 0 || len(req.Relationships) > 0
	if hasSummary {
		capacity++
	}

	messages := make([]openai.ChatCompletionMessage, 0, capacity)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: NamePrompt,
	})

	if hasSummary {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: characterSummary(req),
		})
	}

	for _, h := range req.Histories {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(h.Role),
			Content: h.Content,
		})
	}
	return messages
}

func characterSummary(req naming.Request) string {
	traits := make([]string, 0, len(req.Characteristics))
	for _, ch := range req.Characteristics {
		traits = append(traits, "- This character "+ch)
	}
	rels := make([]string, 0, len(req.Relationships))
	for _, rel := range req.Relationships {
		rels = append(rels, fmt.Sprintf("- This character and %s %s", rel.To, rel.Description))
	}
	return strings.Join(traits, "\n") + "\n" + strings.Join(rels, "\n")
}

// Suggest sends the naming conversation to the model and returns the first choice's content.
// Upstream 4xx answers are not retried; transport errors and 5xx are, up to the configured attempts.
func (a *LLMAdapter) Suggest(ctx context.Context, req naming.Request) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:     a.model,
		Messages:  BuildMessages(req),
		MaxTokens: a.maxTokens,
	}

	var resp openai.ChatCompletionResponse
	var err error
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(attempt-1) * a.backoff
			a.logger.Warn("Retrying LLM request",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", apperrors.NewContextCancelled("generate name", ctx.Err())
			}
		}

		var callErr error
		resp, callErr = a.client.CreateChatCompletion(ctx, chatReq)
		if callErr == nil {
			err = nil
			break
		}

		err = apperrors.NewNamingRequestFailed(statusOf(callErr), attempt, callErr)
		a.logger.Error("LLM request failed",
			zap.Error(callErr),
			zap.Int("attempt", attempt),
			zap.String("model", a.model),
		)
		if ctx.Err() != nil {
			return "", apperrors.NewContextCancelled("generate name", ctx.Err())
		}
		if !apperrors.IsRetryable(err) {
			break
		}
	}

	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.ErrNamingNoChoice
	}

	content := resp.Choices[0].Message.Content
	a.logger.Debug("LLM name suggestion generated",
		zap.String("model", a.model),
		zap.Int("histories", len(req.Histories)),
		zap.Int("content_length", len(content)),
	)

	return content, nil
}

func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	return 0
}
