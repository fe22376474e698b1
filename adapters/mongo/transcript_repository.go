package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/satriahrh/tuturan/domain/entities"
	"github.com/satriahrh/tuturan/domain/repositories"
)

const (
	transcriptsCollection = "transcripts"
	countersCollection    = "counters"
	transcriptCounterKey  = "transcripts"
)

// TranscriptRepository stores transcripts in MongoDB. Integer IDs come from a
// counters collection so they match the SQL stores.
type TranscriptRepository struct {
	client     *Client
	collection *mongo.Collection
	counters   *mongo.Collection
	now        func() time.Time
	logger     *zap.Logger
}

var _ repositories.TranscriptRepository = (*TranscriptRepository)(nil)

// NewTranscriptRepository creates a new MongoDB transcript repository
func NewTranscriptRepository(client *Client, logger *zap.Logger) *TranscriptRepository {
	return &TranscriptRepository{
		client:     client,
		collection: client.Database.Collection(transcriptsCollection),
		counters:   client.Database.Collection(countersCollection),
		now:        time.Now,
		logger:     logger,
	}
}

// Create implements repositories.TranscriptRepository
func (r *TranscriptRepository) Create(ctx context.Context, transcript *entities.Transcript) error {
	if transcript == nil {
		return errors.New("transcript cannot be nil")
	}
	if err := transcript.Validate(); err != nil {
		return err
	}

	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}

	// Mongo keeps millisecond precision
	createdAt := r.now().UTC().Truncate(time.Millisecond)
	doc := bson.M{
		"_id":             id,
		"transcript_text": transcript.TranscriptText,
		"summary_text":    transcript.SummaryText,
		"emotion_text":    transcript.EmotionText,
		"created_at":      createdAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert transcript", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to create transcript: %w", err)
	}

	transcript.ID = id
	transcript.CreatedAt = createdAt
	return nil
}

func (r *TranscriptRepository) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": transcriptCounterKey},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate transcript ID: %w", err)
	}
	return counter.Seq, nil
}

// GetByID implements repositories.TranscriptRepository
func (r *TranscriptRepository) GetByID(ctx context.Context, id int64) (*entities.Transcript, error) {
	var transcript entities.Transcript
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&transcript)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("failed to get transcript %d: %w", id, err)
	}
	transcript.CreatedAt = transcript.CreatedAt.UTC()
	return &transcript, nil
}

// List implements repositories.TranscriptRepository
func (r *TranscriptRepository) List(ctx context.Context, limit int) ([]*entities.Transcript, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find transcripts: %w", err)
	}
	defer cursor.Close(ctx)

	var transcripts []*entities.Transcript
	for cursor.Next(ctx) {
		var transcript entities.Transcript
		if err := cursor.Decode(&transcript); err != nil {
			return nil, fmt.Errorf("failed to decode transcript: %w", err)
		}
		transcript.CreatedAt = transcript.CreatedAt.UTC()
		transcripts = append(transcripts, &transcript)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return transcripts, nil
}

// Close implements repositories.TranscriptRepository
func (r *TranscriptRepository) Close(ctx context.Context) error {
	return r.client.Close(ctx)
}
