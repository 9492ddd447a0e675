package handlers

import (
	"encoding/json"
	"net/http"

	"echonotes/ai-backend/types"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, types.ErrorResponse{
		Success:      false,
		ErrorMessage: message,
	})
}
