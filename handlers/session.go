package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"echonotes/ai-backend/config"
	"echonotes/ai-backend/supabase"
	"echonotes/ai-backend/types"
)

func GetSessionsHandler(w http.ResponseWriter, r *http.Request) {
	client, userID, err := supabase.ClientFromRequest(r)
	if err != nil {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	sessions, err := supabase.GetSessions(client, userID)
	if err != nil {
		config.Logger.Error("Failed to fetch sessions:", err)
		writeError(w, "Could not fetch sessions", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, types.GetSessionsResponse{
		Success:  true,
		Sessions: sessions,
	})
}

func DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, "Missing session_id", http.StatusBadRequest)
		return
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		writeError(w, "Invalid session_id", http.StatusBadRequest)
		return
	}

	client, userID, err := supabase.ClientFromRequest(r)
	if err != nil {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	if err := supabase.DeleteSession(client, sessionID, userID); err != nil {
		config.Logger.Error("Failed to delete session:", err)
		writeError(w, "Could not delete session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, types.DeleteSessionResponse{
		Success: true,
		Message: "Session deleted",
	})
}
