package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/satriahrh/tuturan/adapters"
	"github.com/satriahrh/tuturan/adapters/llm"
	"github.com/satriahrh/tuturan/adapters/sentiment"
	"github.com/satriahrh/tuturan/adapters/stt"
	"github.com/satriahrh/tuturan/domain/repositories"
	"github.com/satriahrh/tuturan/internal/api"
	"github.com/satriahrh/tuturan/internal/config"
	"github.com/satriahrh/tuturan/internal/logging"
	"github.com/satriahrh/tuturan/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Initialize adapters
	transcripts, err := adapters.OpenTranscriptRepository(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("Failed to open transcript store", zap.Error(err))
	}

	speechToText, closeSTT, err := newSpeechToText(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize speech-to-text", zap.Error(err))
	}

	chatModel, err := newChatCompleter(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize chat completion", zap.Error(err))
	}

	analyzer, err := newSentimentAnalyzer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize sentiment analysis", zap.Error(err))
	}

	// Initialize usecase services
	sentimentService := usecase.NewSentimentService(analyzer, logger)
	summaryService := usecase.NewSummaryService(chatModel, usecase.SummaryMode(cfg.LLM.SummaryMode), logger)
	transcriptionService := usecase.NewTranscriptionService(
		speechToText,
		sentimentService,
		summaryService,
		transcripts,
		usecase.TranscriptionConfig{ScratchDir: cfg.ScratchDir, STTTimeout: cfg.STTTimeout},
		logger,
	)
	chatService := usecase.NewChatService(transcripts, chatModel, logger)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("requestID", v.RequestID),
				zap.Error(v.Error))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*"},
	}))
	e.Use(middleware.BodyLimit(cfg.UploadMaxSize))

	// Initialize API routes
	api.InitRoutes(e, api.Services{
		Uploads:     transcriptionService,
		Chats:       chatService,
		Sentiment:   sentimentService,
		Transcripts: transcripts,
	}, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("store", cfg.Store.Driver),
		zap.String("stt", cfg.STT.Provider),
		zap.String("llm", cfg.LLM.Provider),
		zap.String("sentiment", cfg.Sentiment.Provider))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := closeSTT(); err != nil {
		logger.Warn("Failed to close speech-to-text client", zap.Error(err))
	}
	if err := transcripts.Close(shutdownCtx); err != nil {
		logger.Warn("Failed to close transcript store", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newSpeechToText(ctx context.Context, cfg config.Config, logger *zap.Logger) (repositories.SpeechToText, func() error, error) {
	noop := func() error { return nil }

	switch cfg.STT.Provider {
	case config.STTGoogle:
		google, err := stt.NewGoogleSpeechToText(ctx, stt.GoogleConfig{
			LanguageCode: cfg.STT.GoogleLanguage,
			SampleRate:   cfg.STT.GoogleSampleRate,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return google, google.Close, nil
	case config.STTStatic:
		return stt.NewStaticSpeechToText(cfg.STT.StaticTranscript, logger), noop, nil
	case config.STTWhisper:
		whisper, err := stt.NewWhisperSpeechToText(stt.WhisperConfig{
			BaseURL: cfg.STT.WhisperURL,
			APIKey:  cfg.STT.WhisperAPIKey,
			Model:   cfg.STT.WhisperModel,
			Timeout: cfg.STTTimeout,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return whisper, noop, nil
	default:
		return nil, nil, fmt.Errorf("unsupported STT provider %q", cfg.STT.Provider)
	}
}

func newChatCompleter(ctx context.Context, cfg config.Config, logger *zap.Logger) (repositories.ChatCompleter, error) {
	switch cfg.LLM.Provider {
	case config.LLMGemini:
		return llm.NewGeminiChat(ctx, llm.GeminiConfig{
			APIKey:      cfg.LLM.GeminiAPIKey,
			Model:       cfg.LLM.GeminiModel,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.HTTPTimeout,
		}, logger)
	case config.LLMLMStudio:
		return llm.NewOpenAIChat(llm.OpenAIConfig{
			BaseURL:     cfg.LLM.BaseURL,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.HTTPTimeout,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLM.Provider)
	}
}

// newSentimentAnalyzer returns a nil analyzer when sentiment is disabled
func newSentimentAnalyzer(cfg config.Config, logger *zap.Logger) (repositories.SentimentAnalyzer, error) {
	if cfg.Sentiment.Provider != config.SentimentOCI {
		logger.Info("Sentiment analysis disabled, emotion comes from the summary")
		return nil, nil
	}

	analyzer, err := sentiment.NewOCISentimentAnalyzer(sentiment.OCIConfig{
		ConfigFile:    cfg.Sentiment.ConfigFile,
		Profile:       cfg.Sentiment.Profile,
		CompartmentID: cfg.Sentiment.CompartmentID,
		LanguageCode:  cfg.Sentiment.LanguageCode,
		Timeout:       cfg.HTTPTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	return analyzer, nil
}
