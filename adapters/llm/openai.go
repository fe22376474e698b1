package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/satriahrh/tuturan/domain/repositories"
)

// OpenAIConfig holds settings for an OpenAI-compatible chat endpoint such as LM Studio
type OpenAIConfig struct {
	// BaseURL is the server root; "/v1" is appended when missing
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

const (
	defaultOpenAIModel   = "local-model"
	defaultOpenAITimeout = 30 * time.Second
)

// OpenAIChat implements ChatCompleter with the chat completions API
type OpenAIChat struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

var _ repositories.ChatCompleter = (*OpenAIChat)(nil)

// ValidateOpenAIConfig validates the configuration and sets defaults
func ValidateOpenAIConfig(config *OpenAIConfig, logger *zap.Logger) error {
	if config.BaseURL == "" {
		return fmt.Errorf("chat completion base URL is required")
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %f", config.Temperature)
	}
	if config.Model == "" {
		logger.Info("Using default chat model", zap.String("model", defaultOpenAIModel))
		config.Model = defaultOpenAIModel
	}
	if config.Timeout <= 0 {
		logger.Info("Using default chat timeout", zap.Duration("timeout", defaultOpenAITimeout))
		config.Timeout = defaultOpenAITimeout
	}
	return nil
}

// NewOpenAIChat creates a chat completion client
func NewOpenAIChat(config OpenAIConfig, logger *zap.Logger) (*OpenAIChat, error) {
	if err := ValidateOpenAIConfig(&config, logger); err != nil {
		return nil, fmt.Errorf("invalid chat configuration: %w", err)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = apiBaseURL(config.BaseURL)
	clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}

	logger.Info("Chat completion client created",
		zap.String("baseURL", clientConfig.BaseURL),
		zap.String("model", config.Model),
		zap.Float32("temperature", config.Temperature))

	return &OpenAIChat{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       config.Model,
		temperature: config.Temperature,
		logger:      logger,
	}, nil
}

func apiBaseURL(base string) string {
	base = strings.TrimRight(base, "/")
	if strings.HasSuffix(base, "/v1") {
		return base
	}
	return base + "/v1"
}

// Complete implements repositories.ChatCompleter
func (o *OpenAIChat) Complete(ctx context.Context, messages []repositories.ChatMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, msg := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", toStatusError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", repositories.ErrEmptyCompletion
	}

	o.logger.Debug("Chat completion received",
		zap.Int("promptTokens", resp.Usage.PromptTokens),
		zap.Int("completionTokens", resp.Usage.CompletionTokens))

	return resp.Choices[0].Message.Content, nil
}

// toStatusError surfaces the HTTP status of a failed call so callers can report it
func toStatusError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &repositories.StatusError{StatusCode: apiErr.HTTPStatusCode, Err: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &repositories.StatusError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}

	return fmt.Errorf("failed to create chat completion: %w", err)
}
