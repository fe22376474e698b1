package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/satriahrh/tuturan/domain/entities"
	"github.com/satriahrh/tuturan/domain/repositories"
)

// ErrSentimentDisabled is returned by Raw when no analyzer is configured
var ErrSentimentDisabled = errors.New("sentiment analysis is disabled")

// SentimentService reduces a sentiment response to a single label. It never fails.
type SentimentService struct {
	analyzer repositories.SentimentAnalyzer
	logger   *zap.Logger
}

// NewSentimentService creates a sentiment service. A nil analyzer disables sentiment.
func NewSentimentService(analyzer repositories.SentimentAnalyzer, logger *zap.Logger) *SentimentService {
	return &SentimentService{
		analyzer: analyzer,
		logger:   logger,
	}
}

// Enabled reports whether an analyzer is configured
func (s *SentimentService) Enabled() bool {
	return s.analyzer != nil
}

// Analyze returns the emotion label and aspects for text.
// The document label wins, then the first aspect's label.
func (s *SentimentService) Analyze(ctx context.Context, text string) (string, []entities.Aspect) {
	if s.analyzer == nil {
		return entities.EmotionUnknown, nil
	}

	result, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		s.logger.Warn("Sentiment analysis failed", zap.Error(err))
		return entities.EmotionUnknown, nil
	}

	switch {
	case result.DocumentSentiment != "":
		return result.DocumentSentiment, result.Aspects
	case len(result.Aspects) > 0 && result.Aspects[0].Sentiment != "":
		return result.Aspects[0].Sentiment, result.Aspects
	default:
		return entities.EmotionNoDocumentResult, result.Aspects
	}
}

// Raw returns the analyzer's unprocessed response for diagnostics
func (s *SentimentService) Raw(ctx context.Context, text string) (interface{}, error) {
	if s.analyzer == nil {
		return nil, ErrSentimentDisabled
	}
	return s.analyzer.Raw(ctx, text)
}
