package llm

import (
	"context"
	"encoding/json"
	"strings"

	"echonotes/ai-backend/config"
	"echonotes/ai-backend/types"
)

// Backend is the slice of the generation client the streaming protocol needs.
// *Client satisfies it; tests substitute a scripted fake.
type Backend interface {
	GenerateStream(ctx context.Context, prompt string, enableSearch bool) (<-chan types.StreamChunk, <-chan error)
}

// AskStream answers a question grounded in the given notes, yielding events as
// the answer arrives. The history is prior turns only and is not mutated. The
// two modes have different shapes on the wire, so each gets its own stream
// function, chosen once here: grounded-only buffers the whole response to
// split out the in-band citation payload, search-augmented forwards text
// immediately and collects grounding references on the side.
//
// On failure the error channel carries an ErrBackendUnavailable-wrapped error
// and no further events are sent; events already delivered stand.
func AskStream(ctx context.Context, backend Backend, notes []types.Note, question string, history []types.ChatMessage, useExternalSearch bool) (<-chan types.StreamEvent, <-chan error) {
	events := make(chan types.StreamEvent, config.StreamChunkBuffer)
	errs := make(chan error, 1)

	if useExternalSearch {
		go streamWithSearch(ctx, backend, notes, question, history, events, errs)
	} else {
		go streamGrounded(ctx, backend, notes, question, history, events, errs)
	}

	return events, errs
}

// AskStream on the client runs the protocol against this backend, so a
// *Client satisfies interfaces that expect the protocol as a method.
func (c *Client) AskStream(ctx context.Context, notes []types.Note, question string, history []types.ChatMessage, useExternalSearch bool) (<-chan types.StreamEvent, <-chan error) {
	return AskStream(ctx, c, notes, question, history, useExternalSearch)
}

// streamGrounded buffers the entire response before yielding anything: the
// separator token may be split across chunks, so no prefix is safe to surface
// until the stream has ended.
func streamGrounded(ctx context.Context, backend Backend, notes []types.Note, question string, history []types.ChatMessage, events chan<- types.StreamEvent, errs chan<- error) {
	defer close(events)
	defer close(errs)

	prompt := BuildGroundedPrompt(notes, history, question)
	chunks, backendErrs := backend.GenerateStream(ctx, prompt, false)

	var buf strings.Builder
	for chunk := range chunks {
		buf.WriteString(chunk.Text)
	}
	if err := <-backendErrs; err != nil {
		errs <- err
		return
	}

	answer, payload, found := strings.Cut(buf.String(), SourcesSeparator)

	events <- types.StreamEvent{Kind: types.EventTextDelta, TextDelta: answer}

	if !found {
		return
	}

	citations, err := parseNoteCitations(payload)
	if err != nil {
		// Citations are best-effort: the answer text already went out and is
		// never retracted.
		config.Logger.Warn("Failed to parse citation payload, continuing without citations: ", err)
		return
	}
	if len(citations) > 0 {
		events <- types.StreamEvent{Kind: types.EventNoteCitations, NoteCitations: citations}
	}
}

// streamWithSearch forwards text as it arrives and emits one terminal web
// citation event built from the grounding references seen across all chunks.
func streamWithSearch(ctx context.Context, backend Backend, notes []types.Note, question string, history []types.ChatMessage, events chan<- types.StreamEvent, errs chan<- error) {
	defer close(events)
	defer close(errs)

	prompt := BuildSearchPrompt(notes, history, question)
	chunks, backendErrs := backend.GenerateStream(ctx, prompt, true)

	var sources []types.WebSource
	for chunk := range chunks {
		if chunk.Text != "" {
			events <- types.StreamEvent{Kind: types.EventTextDelta, TextDelta: chunk.Text}
		}
		sources = append(sources, chunk.WebSources...)
	}
	if err := <-backendErrs; err != nil {
		errs <- err
		return
	}

	citations := dedupeWebSources(sources)
	if len(citations) > 0 {
		events <- types.StreamEvent{Kind: types.EventWebCitations, WebCitations: citations}
	}
}

// dedupeWebSources keeps the first occurrence per URI. A source with no title
// falls back to its URI.
func dedupeWebSources(sources []types.WebSource) []types.WebCitation {
	seen := make(map[string]bool, len(sources))
	var out []types.WebCitation
	for _, src := range sources {
		if src.URI == "" || seen[src.URI] {
			continue
		}
		seen[src.URI] = true
		title := src.Title
		if title == "" {
			title = src.URI
		}
		out = append(out, types.WebCitation{URI: src.URI, Title: title})
	}
	return out
}

// parseNoteCitations decodes the post-separator JSON array. The model is told
// not to fence the array, but it sometimes does anyway, so fences are stripped
// before parsing.
func parseNoteCitations(payload string) ([]types.NoteCitation, error) {
	cleaned := strings.TrimSpace(payload)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var citations []types.NoteCitation
	if err := json.Unmarshal([]byte(cleaned), &citations); err != nil {
		return nil, err
	}
	return citations, nil
}
