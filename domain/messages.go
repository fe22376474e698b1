package domain

import "github.com/satriahrh/tuturan/domain/entities"

// UploadResult is returned to the client after an audio upload has been processed
type UploadResult struct {
	ID         int64             `json:"id"`
	Transcript string            `json:"transcript"`
	Summary    string            `json:"summary"`
	Emotion    string            `json:"emotion"`
	Aspects    []entities.Aspect `json:"aspects,omitempty"`
}

// ChatReply is the outcome of a follow-up chat call. Exactly one field is set.
type ChatReply struct {
	AssistantMessage string `json:"assistant_message,omitempty"`
	Error            string `json:"error,omitempty"`
}
