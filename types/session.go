package types

// Request/response shapes for the HTTP surface.

type AskRequest struct {
	Session           ChatSession `json:"session"`
	Question          string      `json:"question"`
	UseExternalSearch bool        `json:"use_external_search"`
}

type ProcessTranscriptRequest struct {
	Transcript string `json:"transcript"`
	LocalDate  string `json:"local_date"` // YYYY-MM-DD in the caller's calendar
}

type ProcessTranscriptResponse struct {
	Success      bool           `json:"success"`
	Note         *ProcessedNote `json:"note,omitempty"`
	ErrorMessage string         `json:"error,omitempty"`
}

type GetSessionsResponse struct {
	Success  bool          `json:"success"`
	Sessions []ChatSession `json:"sessions"`
}

type DeleteSessionResponse struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error,omitempty"`
	Message      string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error,omitempty"`
}
