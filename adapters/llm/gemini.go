package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/satriahrh/tuturan/domain/repositories"
)

// GeminiConfig holds Gemini API settings
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

const (
	defaultGeminiModel   = "gemini-2.0-flash"
	defaultGeminiTimeout = 30 * time.Second
)

// contentGenerator is the subset of genai.Models used here
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiChat implements ChatCompleter using Google's Gemini API
type GeminiChat struct {
	models      contentGenerator
	model       string
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

var _ repositories.ChatCompleter = (*GeminiChat)(nil)

// ValidateGeminiConfig validates the GeminiConfig and sets defaults
func ValidateGeminiConfig(config *GeminiConfig, logger *zap.Logger) error {
	if config.APIKey == "" {
		return fmt.Errorf("Google AI API key is required")
	}

	if config.Temperature < 0 || config.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %f", config.Temperature)
	}

	if config.Model == "" {
		logger.Info("Using default model", zap.String("model", defaultGeminiModel))
		config.Model = defaultGeminiModel
	}

	if config.Timeout <= 0 {
		logger.Info("Using default timeout", zap.Duration("timeout", defaultGeminiTimeout))
		config.Timeout = defaultGeminiTimeout
	}

	return nil
}

// NewGeminiChat creates a new Gemini chat completer
func NewGeminiChat(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiChat, error) {
	if err := ValidateGeminiConfig(&config, logger); err != nil {
		return nil, fmt.Errorf("invalid gemini configuration: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return newGeminiChat(client.Models, config, logger), nil
}

func newGeminiChat(models contentGenerator, config GeminiConfig, logger *zap.Logger) *GeminiChat {
	return &GeminiChat{
		models:      models,
		model:       config.Model,
		temperature: config.Temperature,
		timeout:     config.Timeout,
		logger:      logger,
	}
}

// Complete implements repositories.ChatCompleter
func (g *GeminiChat) Complete(ctx context.Context, messages []repositories.ChatMessage) (string, error) {
	systemPrompt, contents := toGeminiContents(messages)

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		g.logger.Warn("Failed to generate content", zap.Error(err))
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if response == nil || len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", repositories.ErrEmptyCompletion
	}

	// Extract text from the response
	var responseText string
	for _, part := range response.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			responseText += part.Text
		}
	}

	if strings.TrimSpace(responseText) == "" {
		return "", repositories.ErrEmptyCompletion
	}

	g.logger.Debug("Gemini completion received", zap.Int("length", len(responseText)))
	return responseText, nil
}

// toGeminiContents splits system messages into a single instruction and maps
// the remaining turns to Gemini roles
func toGeminiContents(messages []repositories.ChatMessage) (string, []*genai.Content) {
	var system []string
	var contents []*genai.Content

	for _, msg := range messages {
		switch msg.Role {
		case repositories.SystemRole:
			system = append(system, msg.Content)
		case repositories.AssistantRole:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	return strings.Join(system, "\n\n"), contents
}
