package routes

import "net/http"

// RegisterAllRoutes registers all application routes
func RegisterAllRoutes(mux *http.ServeMux) {
	RegisterAskRoutes(mux)
	RegisterTranscriptRoutes(mux)
	RegisterSessionRoutes(mux)
	RegisterAgendaRoutes(mux)
}
