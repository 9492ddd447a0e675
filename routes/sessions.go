package routes

import (
	"net/http"

	"echonotes/ai-backend/handlers"
)

// RegisterSessionRoutes registers all session-related routes
func RegisterSessionRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /sessions", handlers.GetSessionsHandler)
	mux.HandleFunc("DELETE /sessions", handlers.DeleteSessionHandler)
}
