package routes

import (
	"net/http"

	"echonotes/ai-backend/handlers"
)

// RegisterAgendaRoutes registers the due-item projection routes
func RegisterAgendaRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /agenda/today", handlers.TodayAgendaHandler)
	mux.HandleFunc("GET /agenda", handlers.DateAgendaHandler)
}
