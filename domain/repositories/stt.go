package repositories

import "context"

// SpeechToText abstracts speech recognition services
type SpeechToText interface {
	// Transcribe converts the audio file at audioPath to plain text
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
