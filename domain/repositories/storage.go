package repositories

import (
	"context"
	"errors"

	"github.com/satriahrh/tuturan/domain/entities"
)

// ErrTranscriptNotFound is returned when no transcript matches the requested ID
var ErrTranscriptNotFound = errors.New("transcript not found")

// TranscriptRepository defines data access methods for transcripts.
// There is no update or delete: transcripts are immutable once created.
type TranscriptRepository interface {
	// Create persists a new transcript and sets its ID and CreatedAt
	Create(ctx context.Context, transcript *entities.Transcript) error
	// GetByID returns ErrTranscriptNotFound when the ID is unknown
	GetByID(ctx context.Context, id int64) (*entities.Transcript, error)
	// List returns the most recent transcripts first
	List(ctx context.Context, limit int) ([]*entities.Transcript, error)
	Close(ctx context.Context) error
}
