package adapters

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/satriahrh/tuturan/domain/entities"
	"github.com/satriahrh/tuturan/domain/repositories"
)

// MemoryTranscriptRepository is an in-memory implementation of TranscriptRepository.
// Contents are lost on restart; use it for tests and single-process demos.
type MemoryTranscriptRepository struct {
	mu          sync.RWMutex
	transcripts map[int64]*entities.Transcript
	nextID      int64
	now         func() time.Time
}

var _ repositories.TranscriptRepository = (*MemoryTranscriptRepository)(nil)

// NewMemoryTranscriptRepository creates a new in-memory transcript repository
func NewMemoryTranscriptRepository() *MemoryTranscriptRepository {
	return &MemoryTranscriptRepository{
		transcripts: make(map[int64]*entities.Transcript),
		now:         time.Now,
	}
}

// Create implements TranscriptRepository interface
func (m *MemoryTranscriptRepository) Create(ctx context.Context, transcript *entities.Transcript) error {
	if transcript == nil {
		return errors.New("transcript cannot be nil")
	}
	if err := transcript.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	transcript.ID = m.nextID
	transcript.CreatedAt = m.now().UTC()

	// store a copy so callers cannot mutate the persisted row
	stored := *transcript
	m.transcripts[stored.ID] = &stored
	return nil
}

// GetByID implements TranscriptRepository interface
func (m *MemoryTranscriptRepository) GetByID(ctx context.Context, id int64) (*entities.Transcript, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	transcript, exists := m.transcripts[id]
	if !exists {
		return nil, repositories.ErrTranscriptNotFound
	}
	copied := *transcript
	return &copied, nil
}

// List implements TranscriptRepository interface
func (m *MemoryTranscriptRepository) List(ctx context.Context, limit int) ([]*entities.Transcript, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	transcripts := make([]*entities.Transcript, 0, len(m.transcripts))
	for _, transcript := range m.transcripts {
		copied := *transcript
		transcripts = append(transcripts, &copied)
	}

	// IDs are monotonic, so descending ID is newest first
	sort.Slice(transcripts, func(i, j int) bool {
		return transcripts[i].ID > transcripts[j].ID
	})

	if limit > 0 && len(transcripts) > limit {
		transcripts = transcripts[:limit]
	}
	return transcripts, nil
}

// Close implements TranscriptRepository interface
func (m *MemoryTranscriptRepository) Close(ctx context.Context) error {
	return nil
}
