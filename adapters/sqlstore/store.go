// Package sqlstore persists transcripts in a relational database through database/sql.
// SQLite (modernc.org/sqlite) and PostgreSQL (lib/pq) are supported.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/satriahrh/tuturan/domain/entities"
	"github.com/satriahrh/tuturan/domain/repositories"
)

// Store implements TranscriptRepository on top of database/sql
type Store struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
	logger  *zap.Logger
}

var _ repositories.TranscriptRepository = (*Store)(nil)

// Open connects to the database, verifies the connection and creates the schema.
// driver is "sqlite" or "postgres".
func Open(ctx context.Context, driver, dsn string, logger *zap.Logger) (*Store, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if d.singleConn {
		// SQLite allows a single writer, and an in-memory database only lives on one connection
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Info("Transcript store ready", zap.String("driver", driver))

	return &Store{
		db:      db,
		dialect: d,
		now:     time.Now,
		logger:  logger,
	}, nil
}

// Create implements repositories.TranscriptRepository
func (s *Store) Create(ctx context.Context, transcript *entities.Transcript) error {
	if transcript == nil {
		return errors.New("transcript cannot be nil")
	}
	if err := transcript.Validate(); err != nil {
		return err
	}

	createdAt := s.now().UTC()
	query := s.dialect.rebind(`
		INSERT INTO transcripts (transcript_text, summary_text, emotion_text, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		transcript.TranscriptText,
		transcript.SummaryText,
		transcript.EmotionText,
		s.dialect.encodeTime(createdAt),
	).Scan(&id)
	if err != nil {
		s.logger.Error("Failed to insert transcript", zap.Error(err))
		return fmt.Errorf("failed to create transcript: %w", err)
	}

	transcript.ID = id
	transcript.CreatedAt = createdAt

	s.logger.Debug("Transcript created", zap.Int64("id", id))
	return nil
}

// GetByID implements repositories.TranscriptRepository
func (s *Store) GetByID(ctx context.Context, id int64) (*entities.Transcript, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.rebind(`
		SELECT id, transcript_text, summary_text, emotion_text, created_at
		FROM transcripts
		WHERE id = ?
	`), id)

	transcript, err := s.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("failed to get transcript %d: %w", id, err)
	}
	return transcript, nil
}

// List implements repositories.TranscriptRepository. A non-positive limit returns every row.
func (s *Store) List(ctx context.Context, limit int) ([]*entities.Transcript, error) {
	query := `
		SELECT id, transcript_text, summary_text, emotion_text, created_at
		FROM transcripts
		ORDER BY id DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcripts: %w", err)
	}
	defer rows.Close()

	var transcripts []*entities.Transcript
	for rows.Next() {
		transcript, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transcript: %w", err)
		}
		transcripts = append(transcripts, transcript)
	}
	return transcripts, rows.Err()
}

// Close implements repositories.TranscriptRepository
func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (s *Store) scan(row scanner) (*entities.Transcript, error) {
	var t entities.Transcript
	var createdAt interface{}
	if err := row.Scan(&t.ID, &t.TranscriptText, &t.SummaryText, &t.EmotionText, &createdAt); err != nil {
		return nil, err
	}

	ts, err := s.dialect.decodeTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.CreatedAt = ts
	return &t, nil
}
