package types

// StreamEventKind tags the variants of StreamEvent.
type StreamEventKind string

const (
	EventTextDelta     StreamEventKind = "text_delta"
	EventNoteCitations StreamEventKind = "note_citations"
	EventWebCitations  StreamEventKind = "web_citations"
)

// StreamEvent is one step of an in-flight answer. Text deltas are cumulative
// (append, never replace); citation events carry a full replacement list.
// Events are ephemeral and never persisted.
type StreamEvent struct {
	Kind          StreamEventKind `json:"kind"`
	TextDelta     string          `json:"text_delta,omitempty"`
	NoteCitations []NoteCitation  `json:"note_citations,omitempty"`
	WebCitations  []WebCitation   `json:"web_citations,omitempty"`
}

// StreamChunk is one raw element of the model's response stream: a text
// fragment, grounding references, or both.
type StreamChunk struct {
	Text       string
	WebSources []WebSource
}

// WebSource is a grounding reference as reported by the backend, before
// deduplication.
type WebSource struct {
	URI   string
	Title string
}
