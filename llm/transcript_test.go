package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type scriptedGenerator struct {
	text string
	err  error

	calls      int
	lastPrompt string
	lastSchema map[string]interface{}
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string, schema map[string]interface{}) (string, error) {
	g.calls++
	g.lastPrompt = prompt
	g.lastSchema = schema
	return g.text, g.err
}

func TestProcessTranscript_ParsesStructuredNote(t *testing.T) {
	gen := &scriptedGenerator{
		text: `{
			"refined_text": "I met with the design team today.",
			"emotion_summary": "Energised and optimistic.",
			"emotions": ["optimistic"],
			"action_items": [{"text": "Send the mockups to Sam", "due_date": "2026-09-02"}]
		}`,
	}

	note, err := ProcessTranscript(context.Background(), gen, "uh so I met the design team", "2026-09-01")
	if err != nil {
		t.Fatalf("ProcessTranscript failed: %v", err)
	}

	if note.RefinedText != "I met with the design team today." {
		t.Fatalf("unexpected refined text: %q", note.RefinedText)
	}
	if len(note.ActionItems) != 1 || note.ActionItems[0].DueDate != "2026-09-02" {
		t.Fatalf("unexpected action items: %+v", note.ActionItems)
	}
	if gen.lastSchema == nil {
		t.Fatalf("expected a response schema to be sent")
	}
	if !strings.Contains(gen.lastPrompt, "2026-09-01") {
		t.Fatalf("prompt must carry the caller's local date")
	}
}

func TestProcessTranscript_EmptyInputRejectedBeforeCall(t *testing.T) {
	gen := &scriptedGenerator{}

	_, err := ProcessTranscript(context.Background(), gen, "   ", "2026-09-01")
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("backend must not be called for empty input")
	}
}

func TestProcessTranscript_MalformedResponse(t *testing.T) {
	gen := &scriptedGenerator{text: "not json at all"}

	_, err := ProcessTranscript(context.Background(), gen, "some transcript", "2026-09-01")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestProcessTranscript_MissingRefinedText(t *testing.T) {
	gen := &scriptedGenerator{text: `{"emotion_summary": "fine", "emotions": [], "action_items": []}`}

	_, err := ProcessTranscript(context.Background(), gen, "some transcript", "2026-09-01")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestProcessTranscript_BackendErrorPassesThrough(t *testing.T) {
	gen := &scriptedGenerator{err: ErrBackendUnavailable}

	_, err := ProcessTranscript(context.Background(), gen, "some transcript", "2026-09-01")
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}
