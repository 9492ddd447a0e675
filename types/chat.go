package types

import "time"

// Message roles.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// ChatSession groups the notes a user is questioning and the exchange so far.
// Sessions are created client-side and only persisted after the first completed
// exchange; the id never changes after creation.
type ChatSession struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Title     string        `json:"title"`
	CreatedAt time.Time     `json:"created_at,omitempty"`
	NoteIDs   []string      `json:"note_ids"`
	Messages  []ChatMessage `json:"messages"`
}

// ChatMessage is one turn. A user turn carries only Text; an assistant turn
// carries the answer plus whatever citations the stream produced.
type ChatMessage struct {
	Sender        string         `json:"sender"`
	Text          string         `json:"text"`
	NoteCitations []NoteCitation `json:"note_citations,omitempty"`
	WebCitations  []WebCitation  `json:"web_citations,omitempty"`
}

// NoteCitation points back into the grounding notes.
type NoteCitation struct {
	NoteID  string `json:"noteId"`
	Snippet string `json:"snippet"`
}

// WebCitation is a deduplicated web source from search-augmented answers.
type WebCitation struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// IsPlaceholder reports whether the message is the transient empty assistant
// turn that stands in for an answer still being streamed. A placeholder must
// never reach the session store.
func (m ChatMessage) IsPlaceholder() bool {
	return m.Sender == SenderAssistant && m.Text == "" &&
		len(m.NoteCitations) == 0 && len(m.WebCitations) == 0
}
