package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/tuturan/domain/entities"
	"github.com/satriahrh/tuturan/domain/repositories"
)

func TestSummaryService_JSONMode(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		summary    string
		emotion    string
		structured bool
	}{
		{"plain object", `{"summary":"S","emotion":"E"}`, "S", "E", true},
		{"code fence", "```json\n{\"summary\":\"S\",\"emotion\":\"E\"}\n```", "S", "E", true},
		{"surrounded by prose", `Sure! {"summary": "S", "emotion": "Calm"} Hope that helps.`, "S", "Calm", true},
		{"missing summary", `{"emotion":"E"}`, SummaryMissing, "E", true},
		{"missing emotion", `{"summary":"S"}`, "S", EmotionMissing, true},
		{"blank summary", `{"summary":"  ","emotion":"Happy"}`, SummaryMissing, "Happy", true},
		{"blank emotion", `{"summary":"S","emotion":""}`, "S", EmotionMissing, true},
		{"null summary", `{"summary":null,"emotion":"E"}`, SummaryMissing, "E", true},
		{"not json", "hello", "LLM responded but not in JSON: hello", entities.EmotionUnknown, false},
		{"array", `["S"]`, `LLM responded but not in JSON: ["S"]`, entities.EmotionUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeCompleter{reply: tt.reply}
			svc := NewSummaryService(llm, SummaryModeJSON, zaptest.NewLogger(t))

			result := svc.Summarize(context.Background(), "some words")

			if result.Summary != tt.summary {
				t.Errorf("Expected summary %q, got %q", tt.summary, result.Summary)
			}
			if result.Emotion != tt.emotion {
				t.Errorf("Expected emotion %q, got %q", tt.emotion, result.Emotion)
			}
			if result.Structured != tt.structured {
				t.Errorf("Expected structured %v, got %v", tt.structured, result.Structured)
			}
		})
	}
}

func TestSummaryService_NonJSONReplyEmbedsRawText(t *testing.T) {
	svc := NewSummaryService(&fakeCompleter{reply: "hello"}, SummaryModeJSON, zaptest.NewLogger(t))

	result := svc.Summarize(context.Background(), "text")
	if !strings.Contains(result.Summary, "hello") {
		t.Errorf("Expected summary to contain the raw reply, got %q", result.Summary)
	}
}

func TestSummaryService_Prompt(t *testing.T) {
	llm := &fakeCompleter{reply: `{"summary":"S","emotion":"E"}`}
	svc := NewSummaryService(llm, SummaryModeJSON, zaptest.NewLogger(t))

	svc.Summarize(context.Background(), "the quick brown fox")

	if len(llm.messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(llm.messages))
	}
	if llm.messages[0].Role != repositories.SystemRole || !strings.Contains(llm.messages[0].Content, "'summary'") {
		t.Errorf("Expected JSON system prompt, got %+v", llm.messages[0])
	}
	want := "Text: the quick brown fox\nSummarize and provide overall emotion."
	if llm.messages[1].Role != repositories.UserRole || llm.messages[1].Content != want {
		t.Errorf("Expected user content %q, got %q", want, llm.messages[1].Content)
	}
}

func TestSummaryService_TextMode(t *testing.T) {
	llm := &fakeCompleter{reply: `A short recap, not {json}`}
	svc := NewSummaryService(llm, SummaryModeText, zaptest.NewLogger(t))

	result := svc.Summarize(context.Background(), "text")

	if result.Summary != `A short recap, not {json}` {
		t.Errorf("Expected verbatim reply, got %q", result.Summary)
	}
	if result.Structured {
		t.Error("Expected free-text result not to be structured")
	}
	if result.Emotion != entities.EmotionUnknown {
		t.Errorf("Expected emotion %s, got %s", entities.EmotionUnknown, result.Emotion)
	}
}

func TestSummaryService_Failures(t *testing.T) {
	tests := []struct {
		name     string
		mode     SummaryMode
		reply    string
		err      error
		expected string
	}{
		{"status", SummaryModeJSON, "", &repositories.StatusError{StatusCode: 503, Err: errors.New("busy")}, "LLM Error: status 503"},
		{"wrapped status", SummaryModeJSON, "", errors.Join(errors.New("ctx"), &repositories.StatusError{StatusCode: 404}), "LLM Error: status 404"},
		{"transport", SummaryModeJSON, "", errors.New("connection refused"), "Error: connection refused"},
		{"empty", SummaryModeJSON, "", repositories.ErrEmptyCompletion, SummaryUnavailable},
		{"empty text mode", SummaryModeText, "", repositories.ErrEmptyCompletion, SummaryUnavailable},
		{"blank text reply", SummaryModeText, " \n", nil, SummaryUnavailable},
		{"empty text reply", SummaryModeText, "", nil, SummaryUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSummaryService(&fakeCompleter{reply: tt.reply, err: tt.err}, tt.mode, zaptest.NewLogger(t))

			result := svc.Summarize(context.Background(), "text")

			if result.Summary != tt.expected {
				t.Errorf("Expected summary %q, got %q", tt.expected, result.Summary)
			}
			if result.Emotion != entities.EmotionUnknown || result.Structured {
				t.Errorf("Expected unstructured Unknown result, got %+v", result)
			}
		})
	}
}

func TestNewSummaryService_DefaultsToJSON(t *testing.T) {
	svc := NewSummaryService(&fakeCompleter{}, "", zaptest.NewLogger(t))
	if svc.mode != SummaryModeJSON {
		t.Errorf("Expected default mode %s, got %s", SummaryModeJSON, svc.mode)
	}
}
