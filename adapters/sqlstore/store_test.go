package sqlstore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/tuturan/domain/entities"
	"github.com/satriahrh/tuturan/domain/repositories"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), "sqlite", ":memory:", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close(context.Background()) })
	return store
}

func TestStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	fixed := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	transcript := entities.NewTranscript("hello world", "S", "Positive")
	if err := store.Create(ctx, transcript); err != nil {
		t.Fatalf("Failed to create transcript: %v", err)
	}

	if transcript.ID <= 0 {
		t.Fatalf("Expected positive ID, got %d", transcript.ID)
	}

	retrieved, err := store.GetByID(ctx, transcript.ID)
	if err != nil {
		t.Fatalf("Failed to get transcript: %v", err)
	}

	if retrieved.TranscriptText != "hello world" {
		t.Errorf("Expected transcript text 'hello world', got %s", retrieved.TranscriptText)
	}
	if retrieved.SummaryText != "S" {
		t.Errorf("Expected summary 'S', got %s", retrieved.SummaryText)
	}
	if retrieved.EmotionText != "Positive" {
		t.Errorf("Expected emotion 'Positive', got %s", retrieved.EmotionText)
	}
	if !retrieved.CreatedAt.Equal(fixed) {
		t.Errorf("Expected created_at %s, got %s", fixed, retrieved.CreatedAt)
	}
}

func TestStore_IDsIncrease(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	first := entities.NewTranscript("one", "s", "e")
	second := entities.NewTranscript("two", "s", "e")
	if err := store.Create(ctx, first); err != nil {
		t.Fatalf("Failed to create first transcript: %v", err)
	}
	if err := store.Create(ctx, second); err != nil {
		t.Fatalf("Failed to create second transcript: %v", err)
	}

	if second.ID <= first.ID {
		t.Errorf("Expected second ID > first ID, got %d and %d", second.ID, first.ID)
	}
}

func TestStore_GetByIDNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetByID(context.Background(), 999)
	if !errors.Is(err, repositories.ErrTranscriptNotFound) {
		t.Errorf("Expected ErrTranscriptNotFound, got %v", err)
	}
}

func TestStore_CreateRejectsInvalid(t *testing.T) {
	store := openTestStore(t)

	if err := store.Create(context.Background(), entities.NewTranscript("   ", "s", "e")); err == nil {
		t.Error("Expected error for blank transcript text")
	}
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for _, text := range []string{"one", "two", "three"} {
		if err := store.Create(ctx, entities.NewTranscript(text, "s", "e")); err != nil {
			t.Fatalf("Failed to create transcript: %v", err)
		}
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to list transcripts: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("Expected 2 transcripts, got %d", len(limited))
	}
	if limited[0].TranscriptText != "three" {
		t.Errorf("Expected newest first, got %s", limited[0].TranscriptText)
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to list transcripts: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 transcripts, got %d", len(all))
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open(context.Background(), "oracle", "", zaptest.NewLogger(t)); err == nil {
		t.Error("Expected error for unsupported driver")
	}
}

func TestDialect_Rebind(t *testing.T) {
	query := "SELECT * FROM t WHERE a = ? AND b = ?"

	if got := sqliteDialect.rebind(query); got != query {
		t.Errorf("Expected sqlite query unchanged, got %s", got)
	}

	want := "SELECT * FROM t WHERE a = $1 AND b = $2"
	if got := postgresDialect.rebind(query); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestDialect_TimeRoundTrip(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	decoded, err := sqliteDialect.decodeTime(sqliteDialect.encodeTime(ts))
	if err != nil {
		t.Fatalf("Failed to decode time: %v", err)
	}
	if !decoded.Equal(ts) {
		t.Errorf("Expected %s, got %s", ts, decoded)
	}

	if _, err := sqliteDialect.decodeTime("yesterday"); err == nil {
		t.Error("Expected error for unsupported time representation")
	}
}

// Integration test against a real PostgreSQL server (requires POSTGRES_DSN)
func TestStore_PostgresIntegration(t *testing.T) {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set, skipping integration test")
	}

	ctx := context.Background()
	store, err := Open(ctx, "postgres", dsn, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to open postgres store: %v", err)
	}
	defer store.Close(ctx)

	transcript := entities.NewTranscript("integration", "summary", "Neutral")
	if err := store.Create(ctx, transcript); err != nil {
		t.Fatalf("Failed to create transcript: %v", err)
	}

	retrieved, err := store.GetByID(ctx, transcript.ID)
	if err != nil {
		t.Fatalf("Failed to get transcript: %v", err)
	}
	if retrieved.TranscriptText != "integration" {
		t.Errorf("Expected transcript text 'integration', got %s", retrieved.TranscriptText)
	}
}
