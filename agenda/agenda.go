// Package agenda derives "due today" and "due on date" projections from the
// note collection. Pure functions; the note store does the fetching.
package agenda

import (
	"sort"

	"echonotes/ai-backend/types"
)

// Item is one action item paired with the note it came from.
type Item struct {
	NoteID    string `json:"note_id"`
	Text      string `json:"text"`
	DueDate   string `json:"due_date"`
	Time      string `json:"time,omitempty"`
	Completed bool   `json:"completed"`
}

// DueToday returns the incomplete action items due on the given date
// (YYYY-MM-DD, the caller's local calendar). Items without a time sort before
// timed items, then by time ascending.
func DueToday(notes []types.Note, date string) []Item {
	items := collect(notes, date, false)
	sort.SliceStable(items, func(i, j int) bool {
		return timeLess(items[i].Time, items[j].Time)
	})
	return items
}

// DueOn returns every action item due on the given date, completed ones
// included. Incomplete items sort before completed ones, then the same
// no-time-first time order applies within each group. This ordering is
// deliberately different from DueToday's.
func DueOn(notes []types.Note, date string) []Item {
	items := collect(notes, date, true)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Completed != items[j].Completed {
			return !items[i].Completed
		}
		return timeLess(items[i].Time, items[j].Time)
	})
	return items
}

func collect(notes []types.Note, date string, includeCompleted bool) []Item {
	var items []Item
	for _, note := range notes {
		for _, action := range note.ActionItems {
			if action.DueDate != date {
				continue
			}
			if !includeCompleted && action.Completed {
				continue
			}
			items = append(items, Item{
				NoteID:    note.ID,
				Text:      action.Text,
				DueDate:   action.DueDate,
				Time:      action.Time,
				Completed: action.Completed,
			})
		}
	}
	return items
}

// timeLess orders HH:MM strings ascending with the empty (no-time) value
// first. HH:MM compares correctly as a plain string.
func timeLess(a, b string) bool {
	if (a == "") != (b == "") {
		return a == ""
	}
	return a < b
}
