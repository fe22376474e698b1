package usecase

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/satriahrh/tuturan/domain/entities"
	"github.com/satriahrh/tuturan/domain/repositories"
)

type fakeSpeechToText struct {
	text     string
	err      error
	gotAudio []byte
	gotPath  string
}

func (f *fakeSpeechToText) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f.gotPath = audioPath
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", err
	}
	f.gotAudio = data
	return f.text, f.err
}

type fakeAnalyzer struct {
	result repositories.SentimentResult
	err    error
	calls  int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string) (repositories.SentimentResult, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeAnalyzer) Raw(ctx context.Context, text string) (interface{}, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return map[string]string{"text": text}, nil
}

type fakeCompleter struct {
	mu       sync.Mutex
	reply    string
	err      error
	calls    int
	messages []repositories.ChatMessage
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []repositories.ChatMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.messages = messages
	return f.reply, f.err
}

type failingStore struct{}

func (failingStore) Create(ctx context.Context, transcript *entities.Transcript) error {
	return errors.New("disk full")
}

func (failingStore) GetByID(ctx context.Context, id int64) (*entities.Transcript, error) {
	return nil, repositories.ErrTranscriptNotFound
}

func (failingStore) List(ctx context.Context, limit int) ([]*entities.Transcript, error) {
	return nil, nil
}

func (failingStore) Close(ctx context.Context) error {
	return nil
}
