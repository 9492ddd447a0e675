package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"echonotes/ai-backend/config"
	"echonotes/ai-backend/llm"
	"echonotes/ai-backend/supabase"
	"echonotes/ai-backend/types"
)

// ProcessTranscriptHandler refines a raw speech transcript into a structured
// note. The note itself is saved by the note service; this endpoint only does
// the AI pass.
func ProcessTranscriptHandler(w http.ResponseWriter, r *http.Request) {
	var req types.ProcessTranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if _, _, err := supabase.ClientFromRequest(r); err != nil {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	localDate := req.LocalDate
	if localDate == "" {
		localDate = time.Now().Format("2006-01-02")
	}

	note, err := llm.ProcessTranscript(r.Context(), gemini, req.Transcript, localDate)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrEmptyInput):
			writeError(w, "Missing transcript", http.StatusBadRequest)
		case errors.Is(err, llm.ErrBackendUnavailable):
			config.Logger.Error("Transcript processing failed:", err)
			writeError(w, "AI service unavailable", http.StatusServiceUnavailable)
		case errors.Is(err, llm.ErrMalformedResponse):
			config.Logger.Error("Transcript processing returned bad shape:", err)
			writeError(w, "Could not process transcript", http.StatusBadGateway)
		default:
			config.Logger.Error("Transcript processing failed:", err)
			writeError(w, "Could not process transcript", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, types.ProcessTranscriptResponse{
		Success: true,
		Note:    &note,
	})
}
