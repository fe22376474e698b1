package stt

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/satriahrh/tuturan/domain/repositories"
)

// WhisperConfig holds settings for an OpenAI-compatible transcription endpoint
type WhisperConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

const (
	defaultWhisperModel   = openai.Whisper1
	defaultWhisperTimeout = 5 * time.Minute
)

// WhisperSpeechToText implements SpeechToText against /audio/transcriptions
type WhisperSpeechToText struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

var _ repositories.SpeechToText = (*WhisperSpeechToText)(nil)

// ValidateWhisperConfig validates the configuration and sets defaults
func ValidateWhisperConfig(config *WhisperConfig, logger *zap.Logger) error {
	if config.BaseURL == "" {
		return fmt.Errorf("whisper base URL is required")
	}
	if config.Model == "" {
		logger.Info("Using default whisper model", zap.String("model", defaultWhisperModel))
		config.Model = defaultWhisperModel
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultWhisperTimeout
	}
	return nil
}

// NewWhisperSpeechToText creates a transcription client for the given endpoint
func NewWhisperSpeechToText(config WhisperConfig, logger *zap.Logger) (*WhisperSpeechToText, error) {
	if err := ValidateWhisperConfig(&config, logger); err != nil {
		return nil, fmt.Errorf("invalid whisper configuration: %w", err)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = strings.TrimRight(config.BaseURL, "/")
	clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}

	logger.Info("Whisper transcription client created",
		zap.String("baseURL", clientConfig.BaseURL),
		zap.String("model", config.Model))

	return &WhisperSpeechToText{
		client: openai.NewClientWithConfig(clientConfig),
		model:  config.Model,
		logger: logger,
	}, nil
}

// Transcribe implements repositories.SpeechToText
func (w *WhisperSpeechToText) Transcribe(ctx context.Context, audioPath string) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: audioPath,
	})
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	w.logger.Debug("Whisper transcription completed", zap.Int("length", len(resp.Text)))
	return strings.TrimSpace(resp.Text), nil
}
