package stt

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/satriahrh/tuturan/domain/repositories"
)

// StaticSpeechToText returns a fixed transcript for any readable audio file.
// It is used for local runs without a speech engine.
type StaticSpeechToText struct {
	transcript string
	logger     *zap.Logger
}

var _ repositories.SpeechToText = (*StaticSpeechToText)(nil)

// NewStaticSpeechToText creates a speech-to-text stub that always answers transcript
func NewStaticSpeechToText(transcript string, logger *zap.Logger) *StaticSpeechToText {
	return &StaticSpeechToText{
		transcript: transcript,
		logger:     logger,
	}
}

// Transcribe implements repositories.SpeechToText
func (s *StaticSpeechToText) Transcribe(ctx context.Context, audioPath string) (string, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat audio file: %w", err)
	}

	s.logger.Info("Processing static speech-to-text",
		zap.String("path", audioPath),
		zap.Int64("audioSize", info.Size()))

	return s.transcript, nil
}
