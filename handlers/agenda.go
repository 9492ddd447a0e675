package handlers

import (
	"net/http"
	"regexp"

	"echonotes/ai-backend/agenda"
	"echonotes/ai-backend/config"
	"echonotes/ai-backend/supabase"
	"echonotes/ai-backend/types"
)

// The date always comes from the caller: "today" is the caller's local
// calendar day, not the server's.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type agendaResponse struct {
	Success bool          `json:"success"`
	Date    string        `json:"date"`
	Items   []agenda.Item `json:"items"`
}

func TodayAgendaHandler(w http.ResponseWriter, r *http.Request) {
	serveAgenda(w, r, agenda.DueToday)
}

func DateAgendaHandler(w http.ResponseWriter, r *http.Request) {
	serveAgenda(w, r, agenda.DueOn)
}

func serveAgenda(w http.ResponseWriter, r *http.Request, project func([]types.Note, string) []agenda.Item) {
	date := r.URL.Query().Get("date")
	if !datePattern.MatchString(date) {
		writeError(w, "Missing or invalid date (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	client, userID, err := supabase.ClientFromRequest(r)
	if err != nil {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	notes, err := supabase.NewNoteStore(client, userID).GetNotes(r.Context())
	if err != nil {
		config.Logger.Error("Failed to fetch notes for agenda:", err)
		writeError(w, "Could not fetch notes", http.StatusInternalServerError)
		return
	}

	items := project(notes, date)
	if items == nil {
		items = []agenda.Item{}
	}

	writeJSON(w, http.StatusOK, agendaResponse{
		Success: true,
		Date:    date,
		Items:   items,
	})
}
