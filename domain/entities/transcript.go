package entities

import (
	"errors"
	"strings"
	"time"
)

// Sentinel emotion labels
const (
	EmotionUnknown          = "Unknown"
	EmotionNoDocumentResult = "No document-level sentiment found"
)

// Transcript is the persisted record of one upload pipeline run.
// Rows are created once and never mutated afterwards.
type Transcript struct {
	ID             int64     `json:"id" bson:"_id" db:"id"`
	TranscriptText string    `json:"transcript_text" bson:"transcript_text" db:"transcript_text"`
	SummaryText    string    `json:"summary_text" bson:"summary_text" db:"summary_text"`
	EmotionText    string    `json:"emotion_text" bson:"emotion_text" db:"emotion_text"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

// NewTranscript builds an unsaved transcript. ID and CreatedAt are assigned by the store.
func NewTranscript(transcriptText, summaryText, emotionText string) *Transcript {
	return &Transcript{
		TranscriptText: transcriptText,
		SummaryText:    summaryText,
		EmotionText:    emotionText,
	}
}

// Validate validates the transcript data
func (t *Transcript) Validate() error {
	if strings.TrimSpace(t.TranscriptText) == "" {
		return errors.New("transcript_text is required")
	}
	if t.SummaryText == "" {
		return errors.New("summary_text is required")
	}
	if t.EmotionText == "" {
		return errors.New("emotion_text is required")
	}
	return nil
}

// Aspect is a sub-span of the transcript with its own sentiment, as reported by
// the sentiment service. Aspects are returned to the caller but never stored.
type Aspect struct {
	Text      string             `json:"text"`
	Sentiment string             `json:"sentiment"`
	Scores    map[string]float64 `json:"scores,omitempty"`
	Offset    int                `json:"offset"`
	Length    int                `json:"length"`
}
