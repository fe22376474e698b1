package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/satriahrh/tuturan/domain"
	"github.com/satriahrh/tuturan/domain/entities"
	"github.com/satriahrh/tuturan/domain/repositories"
)

var (
	// ErrTranscriptionFailed wraps any speech-to-text failure
	ErrTranscriptionFailed = errors.New("transcription failed")
	// ErrEmptyTranscript is returned when the audio produced no text
	ErrEmptyTranscript = errors.New("transcription produced no text")
	// ErrPersistFailed wraps a store failure at the end of the pipeline
	ErrPersistFailed = errors.New("failed to persist transcript")
)

const (
	defaultSTTTimeout    = 5 * time.Minute
	defaultAudioFilename = "audio"
)

// TranscriptionConfig holds pipeline settings
type TranscriptionConfig struct {
	ScratchDir string
	STTTimeout time.Duration
}

// TranscriptionService runs the upload pipeline:
// scratch file, speech-to-text, sentiment, summary, persistence
type TranscriptionService struct {
	speechToText repositories.SpeechToText
	sentiment    *SentimentService
	summary      *SummaryService
	transcripts  repositories.TranscriptRepository
	config       TranscriptionConfig
	logger       *zap.Logger
}

// NewTranscriptionService creates a new transcription service
func NewTranscriptionService(
	stt repositories.SpeechToText,
	sentiment *SentimentService,
	summary *SummaryService,
	transcripts repositories.TranscriptRepository,
	config TranscriptionConfig,
	logger *zap.Logger,
) *TranscriptionService {
	if config.ScratchDir == "" {
		config.ScratchDir = os.TempDir()
		logger.Info("Using default scratch directory", zap.String("dir", config.ScratchDir))
	}
	if config.STTTimeout <= 0 {
		config.STTTimeout = defaultSTTTimeout
		logger.Info("Using default STT timeout", zap.Duration("timeout", config.STTTimeout))
	}

	return &TranscriptionService{
		speechToText: stt,
		sentiment:    sentiment,
		summary:      summary,
		transcripts:  transcripts,
		config:       config,
		logger:       logger,
	}
}

// Upload processes one audio file and returns the stored result.
// Sentiment and summary failures degrade to sentinel text; transcription and
// store failures are returned as errors.
func (s *TranscriptionService) Upload(ctx context.Context, filename string, audio io.Reader) (*domain.UploadResult, error) {
	path, err := s.writeScratch(filename, audio)
	if err != nil {
		return nil, err
	}
	defer s.removeScratch(path)

	s.logger.Info("Processing upload", zap.String("filename", filename))

	text, err := s.transcribe(ctx, path)
	if err != nil {
		return nil, err
	}

	emotion, aspects := s.sentiment.Analyze(ctx, text)
	summary := s.summary.Summarize(ctx, text)

	// without a sentiment service the structured summary carries the emotion
	if !s.sentiment.Enabled() {
		emotion = entities.EmotionUnknown
		if summary.Structured {
			emotion = summary.Emotion
		}
	}

	transcript := entities.NewTranscript(text, summary.Summary, emotion)
	if err := s.transcripts.Create(ctx, transcript); err != nil {
		s.logger.Error("Failed to store transcript", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	s.logger.Info("Upload processed",
		zap.Int64("id", transcript.ID),
		zap.String("emotion", transcript.EmotionText),
		zap.Int("aspects", len(aspects)))

	return &domain.UploadResult{
		ID:         transcript.ID,
		Transcript: transcript.TranscriptText,
		Summary:    transcript.SummaryText,
		Emotion:    transcript.EmotionText,
		Aspects:    aspects,
	}, nil
}

func (s *TranscriptionService) transcribe(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.STTTimeout)
	defer cancel()

	text, err := s.speechToText.Transcribe(ctx, path)
	if err != nil {
		s.logger.Error("Transcription failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrTranscriptionFailed, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyTranscript
	}

	s.logger.Info("Transcription completed", zap.Int("length", len(text)))
	return text, nil
}

func (s *TranscriptionService) writeScratch(filename string, audio io.Reader) (string, error) {
	path := filepath.Join(s.config.ScratchDir, scratchName(filename))

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create scratch file: %w", err)
	}

	if _, err := io.Copy(file, audio); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write scratch file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close scratch file: %w", err)
	}
	return path, nil
}

func (s *TranscriptionService) removeScratch(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("Failed to remove scratch file", zap.String("path", path), zap.Error(err))
	}
}

// scratchName builds temp_<uuid>_<basename>. The extension is kept since some
// engines infer the audio format from it.
func scratchName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.Trim(strings.ReplaceAll(base, "/", ""), ". ")
	if base == "" {
		base = defaultAudioFilename
	}
	return fmt.Sprintf("temp_%s_%s", uuid.New().String(), base)
}
