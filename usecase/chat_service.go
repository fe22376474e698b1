package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/tuturan/domain"
	"github.com/satriahrh/tuturan/domain/entities"
	"github.com/satriahrh/tuturan/domain/repositories"
)

// ErrInvalidMessages is returned when a chat request carries no usable messages
var ErrInvalidMessages = errors.New("invalid chat messages")

// ChatUnavailable is the reply error when the model returned nothing
const ChatUnavailable = "Could not get a reply"

// ChatService answers follow-up questions about a stored transcript.
// Each call rebuilds its context from the store; nothing is kept between calls.
type ChatService struct {
	transcripts repositories.TranscriptRepository
	llm         repositories.ChatCompleter
	logger      *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(transcripts repositories.TranscriptRepository, llm repositories.ChatCompleter, logger *zap.Logger) *ChatService {
	return &ChatService{
		transcripts: transcripts,
		llm:         llm,
		logger:      logger,
	}
}

// Chat forwards messages to the chat model behind a system message describing
// the transcript. A model failure is reported in ChatReply.Error, not as an error.
func (s *ChatService) Chat(ctx context.Context, transcriptID int64, messages []repositories.ChatMessage) (domain.ChatReply, error) {
	transcript, err := s.transcripts.GetByID(ctx, transcriptID)
	if err != nil {
		return domain.ChatReply{}, err
	}

	if err := validateMessages(messages); err != nil {
		return domain.ChatReply{}, err
	}

	conversation := make([]repositories.ChatMessage, 0, len(messages)+1)
	conversation = append(conversation, repositories.ChatMessage{
		Role:    repositories.SystemRole,
		Content: transcriptContext(transcript),
	})
	conversation = append(conversation, messages...)

	reply, err := s.llm.Complete(ctx, conversation)
	if err != nil {
		s.logger.Warn("Chat completion failed",
			zap.Int64("transcriptID", transcriptID),
			zap.Error(err))
		return domain.ChatReply{Error: describeCompletionError(err, ChatUnavailable)}, nil
	}

	s.logger.Info("Chat reply generated",
		zap.Int64("transcriptID", transcriptID),
		zap.Int("messages", len(messages)))

	return domain.ChatReply{AssistantMessage: reply}, nil
}

func validateMessages(messages []repositories.ChatMessage) error {
	if len(messages) == 0 {
		return fmt.Errorf("%w: at least one message is required", ErrInvalidMessages)
	}
	for i, msg := range messages {
		if !msg.Role.Valid() {
			return fmt.Errorf("%w: message %d has unknown role %q", ErrInvalidMessages, i, msg.Role)
		}
		if strings.TrimSpace(msg.Content) == "" {
			return fmt.Errorf("%w: message %d has empty content", ErrInvalidMessages, i)
		}
	}
	return nil
}

func transcriptContext(t *entities.Transcript) string {
	return fmt.Sprintf("You are a helpful assistant answering questions about an audio recording.\n"+
		"Use the transcript, summary and emotion below as context.\n\n"+
		"Transcript:\n%s\n\nSummary:\n%s\n\nEmotion:\n%s",
		t.TranscriptText, t.SummaryText, t.EmotionText)
}
