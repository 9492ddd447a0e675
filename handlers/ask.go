package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"echonotes/ai-backend/chat"
	"echonotes/ai-backend/config"
	"echonotes/ai-backend/llm"
	"echonotes/ai-backend/supabase"
	"echonotes/ai-backend/types"
)

var (
	gemini    *llm.Client
	exchanger *chat.Exchanger
)

// Init wires the shared Gemini client and the exchange coordinator. Called
// once from main before the server starts.
func Init() error {
	client, err := llm.NewClient()
	if err != nil {
		return err
	}
	gemini = client
	exchanger = chat.NewExchanger(client)
	return nil
}

// AskHandler runs one question/answer exchange and relays progress as
// server-sent events: one event per stream event, then a terminal "done"
// event carrying the persisted session, or an "error" event.
func AskHandler(w http.ResponseWriter, r *http.Request) {
	var req types.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, "Missing question", http.StatusBadRequest)
		return
	}

	client, userID, err := supabase.ClientFromRequest(r)
	if err != nil {
		if errors.Is(err, supabase.ErrNotAuthenticated) {
			writeError(w, "Not authenticated", http.StatusUnauthorized)
			return
		}
		config.Logger.Error("Failed to create Supabase client:", err)
		writeError(w, "Failed to create Supabase client", http.StatusInternalServerError)
		return
	}

	session := req.Session
	if session.ID == "" {
		session = chat.NewSession(userID, req.Session.NoteIDs)
	}
	session.UserID = userID

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	notes := supabase.NewNoteStore(client, userID)
	sessions := supabase.NewSessionStore(client, userID)

	stored, err := exchanger.Ask(r.Context(), notes, sessions, session, req.Question, req.UseExternalSearch, func(ev types.StreamEvent) {
		writeSSE(w, flusher, string(ev.Kind), ev)
	})
	if err != nil {
		config.Logger.Error("Exchange failed:", err)
		writeSSE(w, flusher, "error", types.ErrorResponse{ErrorMessage: userFacingError(err)})
		return
	}

	writeSSE(w, flusher, "done", stored)
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		config.Logger.Warn("Failed to marshal SSE payload:", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}

func userFacingError(err error) string {
	switch {
	case errors.Is(err, llm.ErrBackendUnavailable):
		return "AI service unavailable"
	case errors.Is(err, chat.ErrExchangeInFlight):
		return "A question is already being answered for this session"
	case errors.Is(err, chat.ErrEmptyInput):
		return "Missing question"
	case errors.Is(err, supabase.ErrNotAuthenticated):
		return "Not authenticated"
	default:
		return "Something went wrong processing your question"
	}
}
