package repositories

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyCompletion is returned when the provider answered without any choice or text
var ErrEmptyCompletion = errors.New("completion returned no content")

// ChatCompleter abstracts any chat-completion provider
type ChatCompleter interface {
	// Complete sends the full conversation and returns the assistant reply
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// ChatMessage represents a single message in a conversation
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Role defines the type of message sender
type Role string

const (
	UserRole      Role = "user"
	AssistantRole Role = "assistant"
	SystemRole    Role = "system"
)

// Valid reports whether r is one of the supported roles
func (r Role) Valid() bool {
	switch r {
	case UserRole, AssistantRole, SystemRole:
		return true
	}
	return false
}

// StatusError is returned by a ChatCompleter when the endpoint answered with a non-2xx status
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("chat completion returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("chat completion returned status %d: %v", e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}
