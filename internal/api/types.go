package api

import (
	"github.com/satriahrh/tuturan/domain/entities"
	"github.com/satriahrh/tuturan/domain/repositories"
)

// ChatRequest represents the request payload for a follow-up question
type ChatRequest struct {
	TranscriptID int64                      `json:"transcript_id"`
	Messages     []repositories.ChatMessage `json:"messages"`
}

// MessageResponse is the greeting payload
type MessageResponse struct {
	Message string `json:"message"`
}

// TranscriptListResponse represents the response payload for listing transcripts
type TranscriptListResponse struct {
	Transcripts []*entities.Transcript `json:"transcripts"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
