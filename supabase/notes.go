package supabase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/supabase-go"

	"echonotes/ai-backend/types"
)

// NoteStore reads the caller's notes. The ask pipeline only ever reads;
// note creation and editing belong to the note service.
type NoteStore struct {
	client *supabase.Client
	userID string
}

func NewNoteStore(client *supabase.Client, userID string) *NoteStore {
	return &NoteStore{client: client, userID: userID}
}

// Lookup returns the caller's notes whose ids are in the given set. Unknown
// ids are silently absent from the result.
func (s *NoteStore) Lookup(ctx context.Context, ids []string) ([]types.Note, error) {
	if len(ids) == 0 {
		return []types.Note{}, nil
	}

	resp, _, err := s.client.From("notes").
		Select("*", "", false).
		Eq("user_id", s.userID).
		In("id", ids).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notes: %w", err)
	}

	var notes []types.Note
	if err := json.Unmarshal(resp, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode note data: %w", err)
	}
	return notes, nil
}

// GetNotes returns all of the caller's notes, newest first. Used by the
// agenda views, which scan every action item.
func (s *NoteStore) GetNotes(ctx context.Context) ([]types.Note, error) {
	resp, _, err := s.client.From("notes").
		Select("*", "", false).
		Eq("user_id", s.userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notes: %w", err)
	}

	var notes []types.Note
	if err := json.Unmarshal(resp, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode note data: %w", err)
	}
	return notes, nil
}
