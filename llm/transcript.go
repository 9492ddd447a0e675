package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"echonotes/ai-backend/types"
)

// ErrEmptyInput rejects blank transcripts before any network call.
var ErrEmptyInput = errors.New("empty input")

// ErrMalformedResponse means the model's reply did not match the expected
// structured-note shape.
var ErrMalformedResponse = errors.New("malformed transcript analysis response")

// Generator is the non-streaming slice of the generation client.
type Generator interface {
	Generate(ctx context.Context, prompt string, schema map[string]interface{}) (string, error)
}

// processedNoteSchema constrains the model to the ProcessedNote shape.
var processedNoteSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"refined_text":    map[string]interface{}{"type": "string"},
		"emotion_summary": map[string]interface{}{"type": "string"},
		"emotions": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"action_items": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text":     map[string]interface{}{"type": "string"},
					"due_date": map[string]interface{}{"type": "string"},
				},
				"required": []string{"text", "due_date"},
			},
		},
	},
	"required": []string{"refined_text", "emotion_summary", "emotions", "action_items"},
}

// ProcessTranscript turns a raw speech transcript into a structured note.
// localDate is the caller's calendar date (YYYY-MM-DD), used to resolve
// relative dates in the transcript.
func ProcessTranscript(ctx context.Context, backend Generator, transcript, localDate string) (types.ProcessedNote, error) {
	if strings.TrimSpace(transcript) == "" {
		return types.ProcessedNote{}, ErrEmptyInput
	}

	prompt := BuildTranscriptPrompt(transcript, localDate)

	text, err := backend.Generate(ctx, prompt, processedNoteSchema)
	if err != nil {
		return types.ProcessedNote{}, err
	}

	var note types.ProcessedNote
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &note); err != nil {
		return types.ProcessedNote{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if note.RefinedText == "" {
		return types.ProcessedNote{}, fmt.Errorf("%w: refined_text is empty", ErrMalformedResponse)
	}
	if note.ActionItems == nil {
		note.ActionItems = []types.ProcessedActionItem{}
	}
	if note.Emotions == nil {
		note.Emotions = []string{}
	}

	return note, nil
}
