package routes

import (
	"net/http"

	"echonotes/ai-backend/handlers"
)

// RegisterTranscriptRoutes registers transcript processing routes
func RegisterTranscriptRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /transcripts/process", handlers.ProcessTranscriptHandler)
}
