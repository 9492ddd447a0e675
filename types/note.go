package types

import "time"

// Note is a voice note as stored by the note service. The ask/agenda code only
// ever reads notes; creation and editing happen elsewhere.
type Note struct {
	ID             string       `json:"id,omitempty"`
	UserID         string       `json:"user_id"`
	CreatedAt      time.Time    `json:"created_at,omitempty"`
	RefinedText    string       `json:"refined_text"`
	EmotionSummary string       `json:"emotion_summary,omitempty"`
	Emotions       []string     `json:"emotions,omitempty"`
	ActionItems    []ActionItem `json:"action_items,omitempty"`
}

type ActionItem struct {
	Text      string `json:"text"`
	DueDate   string `json:"due_date,omitempty"` // YYYY-MM-DD, empty when undated
	Time      string `json:"time,omitempty"`     // HH:MM, optional
	Completed bool   `json:"completed"`
}

// ProcessedNote is what the transcript processor gets back from the model.
// Action items from this path carry no time or completed flag; the note store
// fills those in with defaults when it saves the note.
type ProcessedNote struct {
	RefinedText    string                `json:"refined_text"`
	EmotionSummary string                `json:"emotion_summary"`
	Emotions       []string              `json:"emotions"`
	ActionItems    []ProcessedActionItem `json:"action_items"`
}

type ProcessedActionItem struct {
	Text    string `json:"text"`
	DueDate string `json:"due_date"`
}
