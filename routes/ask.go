package routes

import (
	"net/http"

	"echonotes/ai-backend/handlers"
)

// RegisterAskRoutes registers the streaming ask endpoint
func RegisterAskRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /ask", handlers.AskHandler)
}
