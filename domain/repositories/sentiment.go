package repositories

import (
	"context"

	"github.com/satriahrh/tuturan/domain/entities"
)

// SentimentAnalyzer abstracts a document sentiment service
type SentimentAnalyzer interface {
	// Analyze scores a single document
	Analyze(ctx context.Context, text string) (SentimentResult, error)
	// Raw returns the unprocessed service response, for diagnostics only
	Raw(ctx context.Context, text string) (interface{}, error)
}

// SentimentResult is the document-level outcome of a sentiment call.
// DocumentSentiment may be empty when the service only reported aspects.
type SentimentResult struct {
	DocumentSentiment string             `json:"document_sentiment"`
	DocumentScores    map[string]float64 `json:"document_scores,omitempty"`
	Aspects           []entities.Aspect  `json:"aspects,omitempty"`
}
