package openrouter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sethvargo/go-retry"

	"policy-agent/internal/application/port/output"
	"policy-agent/internal/domain/entity"
)

var _ output.LLMPort = (*OpenRouterAdapter)(nil)

const (
	defaultBaseURL       = "https://openrouter.ai/api/v1"
	defaultRetryAttempts = 2
	defaultCallTimeout   = 90 * time.Second
	retryBackoffBase     = 500 * time.Millisecond
	retryBackoffMax      = 10 * time.Second
)

type OpenRouterAdapter struct {
	client        *openai.Client
	model         string
	logger        output.LoggerPort
	retryAttempts int
	callTimeout   time.Duration
}

type Config struct {
	APIKey        string
	Model         string
	BaseURL       string
	RetryAttempts int
	CallTimeout   time.Duration
	Logger        output.LoggerPort
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: defaultBaseURL,
	}
}

func NewOpenRouterAdapter(cfg Config) *OpenRouterAdapter {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	} else {
		config.BaseURL = defaultBaseURL
	}

	attempts := cfg.RetryAttempts
	if attempts <= 0 || attempts > 10 {
		attempts = defaultRetryAttempts
	}
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	return &OpenRouterAdapter{
		client:        openai.NewClientWithConfig(config),
		model:         cfg.Model,
		logger:        cfg.Logger,
		retryAttempts: attempts,
		callTimeout:   timeout,
	}
}

func (a *OpenRouterAdapter) Model() string {
	return a.model
}

func (a *OpenRouterAdapter) Invoke(ctx context.Context, req output.InvokeRequest) (string, error) {
	messages := []openai.ChatCompletionMessage{}
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	backoff := retry.WithMaxRetries(uint64(a.retryAttempts),
		retry.WithMaxDuration(retryBackoffMax, retry.NewExponential(retryBackoffBase)))

	var content string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
		defer cancel()

		resp, callErr := a.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model:       a.model,
			Messages:    messages,
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		})
		if callErr != nil {
			classified := a.classify(callErr)
			if errors.Is(classified, entity.ErrConfiguration) {
				return classified
			}
			if a.logger != nil {
				a.logger.Warn("model call failed, may retry", "model", a.model, "error", callErr)
			}
			return retry.RetryableError(classified)
		}
		if len(resp.Choices) == 0 {
			return retry.RetryableError(fmt.Errorf("%w: empty choices in completion", entity.ErrTransport))
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

// classify maps provider failures onto the two error tiers the task units
// distinguish: configuration errors abort the run, transport errors trigger
// fallback substitution.
func (a *OpenRouterAdapter) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401, 403:
			return fmt.Errorf("%w: provider rejected credentials: %v", entity.ErrConfiguration, err)
		}
		return fmt.Errorf("%w: provider error (status %d): %v", entity.ErrTransport, apiErr.HTTPStatusCode, err)
	}
	if strings.Contains(err.Error(), "API key") {
		return fmt.Errorf("%w: %v", entity.ErrConfiguration, err)
	}
	return fmt.Errorf("%w: %v", entity.ErrTransport, err)
}
