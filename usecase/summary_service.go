package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/tuturan/domain/entities"
	"github.com/satriahrh/tuturan/domain/repositories"
)

// SummaryMode selects how the chat model is prompted and how its reply is read
type SummaryMode string

const (
	// SummaryModeJSON asks for {"summary": ..., "emotion": ...}
	SummaryModeJSON SummaryMode = "json"
	// SummaryModeText returns the assistant reply verbatim
	SummaryModeText SummaryMode = "text"
)

// Fallback summaries
const (
	SummaryUnavailable = "Could not get summary"
	SummaryMissing     = "No summary found"
	EmotionMissing     = "No emotion found"
)

const jsonSummaryPrompt = "You are a helpful assistant. The user gives you text. " +
	"Respond in valid JSON only, with two keys: 'summary' for a brief summary, " +
	"'emotion' for the overall emotion.\n\n" +
	"Example output:\n" +
	"{\n" +
	"  \"summary\": \"This is a summary\",\n" +
	"  \"emotion\": \"Happy\"\n" +
	"}\n"

const textSummaryPrompt = "You are a helpful assistant. The user gives you the transcript of an audio recording. " +
	"Reply with a concise summary of it in plain text."

// SummaryResult is either a parsed structured reply or a summary string carrying
// the reason the structured reply could not be obtained
type SummaryResult struct {
	Summary string
	// Emotion is only meaningful when Structured is true
	Emotion string
	// Structured reports that the reply parsed as the expected JSON object
	Structured bool
}

// SummaryService turns a transcript into a summary using a chat model. It never fails.
type SummaryService struct {
	llm    repositories.ChatCompleter
	mode   SummaryMode
	logger *zap.Logger
}

// NewSummaryService creates a new summary service
func NewSummaryService(llm repositories.ChatCompleter, mode SummaryMode, logger *zap.Logger) *SummaryService {
	if mode != SummaryModeText {
		mode = SummaryModeJSON
	}
	return &SummaryService{
		llm:    llm,
		mode:   mode,
		logger: logger,
	}
}

// Summarize asks the chat model for a summary. Failures are folded into the
// returned summary text.
func (s *SummaryService) Summarize(ctx context.Context, text string) SummaryResult {
	prompt, userContent := jsonSummaryPrompt, fmt.Sprintf("Text: %s\nSummarize and provide overall emotion.", text)
	if s.mode == SummaryModeText {
		prompt, userContent = textSummaryPrompt, fmt.Sprintf("Text: %s\nSummarize.", text)
	}

	reply, err := s.llm.Complete(ctx, []repositories.ChatMessage{
		{Role: repositories.SystemRole, Content: prompt},
		{Role: repositories.UserRole, Content: userContent},
	})
	if err != nil {
		s.logger.Warn("Summary request failed", zap.String("mode", string(s.mode)), zap.Error(err))
		return SummaryResult{Summary: describeCompletionError(err, SummaryUnavailable), Emotion: entities.EmotionUnknown}
	}

	if s.mode == SummaryModeText {
		if strings.TrimSpace(reply) == "" {
			return SummaryResult{Summary: SummaryUnavailable, Emotion: entities.EmotionUnknown}
		}
		return SummaryResult{Summary: reply, Emotion: entities.EmotionUnknown}
	}

	return parseStructuredSummary(reply)
}

// describeCompletionError renders a completion failure as a diagnostic string
func describeCompletionError(err error, empty string) string {
	var statusErr *repositories.StatusError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("LLM Error: status %d", statusErr.StatusCode)
	case errors.Is(err, repositories.ErrEmptyCompletion):
		return empty
	default:
		return fmt.Sprintf("Error: %s", err.Error())
	}
}

func parseStructuredSummary(reply string) SummaryResult {
	fields, ok := decodeJSONObject(reply)
	if !ok {
		return SummaryResult{
			Summary: fmt.Sprintf("LLM responded but not in JSON: %s", reply),
			Emotion: entities.EmotionUnknown,
		}
	}

	return SummaryResult{
		Summary:    stringField(fields, "summary", SummaryMissing),
		Emotion:    stringField(fields, "emotion", EmotionMissing),
		Structured: true,
	}
}

// decodeJSONObject accepts a bare object, an object wrapped in a code fence, or
// an object surrounded by prose
func decodeJSONObject(reply string) (map[string]interface{}, bool) {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(reply), &fields); err == nil && fields != nil {
		return fields, true
	}

	trimmed := stripCodeFence(reply)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end <= start {
		return nil, false
	}

	fields = nil
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop the language tag line
	if i := strings.Index(s, "\n"); i != -1 {
		s = s[i+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}

// stringField treats an absent, null or blank value as missing
func stringField(fields map[string]interface{}, key, missing string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return missing
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	if strings.TrimSpace(s) == "" {
		return missing
	}
	return s
}
