package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/tuturan/adapters"
	"github.com/satriahrh/tuturan/domain/entities"
	"github.com/satriahrh/tuturan/domain/repositories"
)

func newChatFixture(t *testing.T) (*ChatService, *fakeCompleter, *entities.Transcript) {
	t.Helper()
	store := adapters.NewMemoryTranscriptRepository()
	transcript := entities.NewTranscript("We shipped the release on Friday.", "Release shipped", "Positive")
	if err := store.Create(context.Background(), transcript); err != nil {
		t.Fatalf("Failed to seed transcript: %v", err)
	}

	llm := &fakeCompleter{reply: "It shipped on Friday."}
	return NewChatService(store, llm, zaptest.NewLogger(t)), llm, transcript
}

func TestChatService_Chat(t *testing.T) {
	svc, llm, transcript := newChatFixture(t)

	messages := []repositories.ChatMessage{
		{Role: repositories.UserRole, Content: "When did we ship?"},
	}
	reply, err := svc.Chat(context.Background(), transcript.ID, messages)
	if err != nil {
		t.Fatalf("Failed to chat: %v", err)
	}

	if reply.AssistantMessage != "It shipped on Friday." || reply.Error != "" {
		t.Errorf("Unexpected reply %+v", reply)
	}

	if len(llm.messages) != 2 {
		t.Fatalf("Expected system message plus 1 user message, got %d", len(llm.messages))
	}

	system := llm.messages[0]
	if system.Role != repositories.SystemRole {
		t.Errorf("Expected first message to be system, got %s", system.Role)
	}
	for _, want := range []string{transcript.TranscriptText, transcript.SummaryText, transcript.EmotionText} {
		if !strings.Contains(system.Content, want) {
			t.Errorf("Expected system context to contain %q", want)
		}
	}
	if llm.messages[1] != messages[0] {
		t.Errorf("Expected caller message to follow the context, got %+v", llm.messages[1])
	}
}

func TestChatService_NotFound(t *testing.T) {
	svc, llm, _ := newChatFixture(t)

	_, err := svc.Chat(context.Background(), 9999, []repositories.ChatMessage{{Role: repositories.UserRole, Content: "hi"}})
	if !errors.Is(err, repositories.ErrTranscriptNotFound) {
		t.Errorf("Expected ErrTranscriptNotFound, got %v", err)
	}
	if llm.calls != 0 {
		t.Errorf("Expected no completion calls, got %d", llm.calls)
	}
}

func TestChatService_InvalidMessages(t *testing.T) {
	svc, llm, transcript := newChatFixture(t)

	tests := []struct {
		name     string
		messages []repositories.ChatMessage
	}{
		{"empty", nil},
		{"bad role", []repositories.ChatMessage{{Role: "tool", Content: "x"}}},
		{"blank content", []repositories.ChatMessage{{Role: repositories.UserRole, Content: "  "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Chat(context.Background(), transcript.ID, tt.messages)
			if !errors.Is(err, ErrInvalidMessages) {
				t.Errorf("Expected ErrInvalidMessages, got %v", err)
			}
		})
	}

	if llm.calls != 0 {
		t.Errorf("Expected no completion calls, got %d", llm.calls)
	}
}

func TestChatService_CompletionFailureIsReplyError(t *testing.T) {
	svc, llm, transcript := newChatFixture(t)
	llm.err = &repositories.StatusError{StatusCode: 502}

	reply, err := svc.Chat(context.Background(), transcript.ID, []repositories.ChatMessage{{Role: repositories.UserRole, Content: "hi"}})
	if err != nil {
		t.Fatalf("Expected no hard error, got %v", err)
	}
	if reply.AssistantMessage != "" || !strings.Contains(reply.Error, "502") {
		t.Errorf("Expected error reply embedding 502, got %+v", reply)
	}
}
