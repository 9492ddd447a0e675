package supabase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"echonotes/ai-backend/types"
)

// SessionStore persists chat sessions. Messages live in a jsonb column on the
// session row, so a session is always written and read whole.
type SessionStore struct {
	client *supabase.Client
	userID string
}

func NewSessionStore(client *supabase.Client, userID string) *SessionStore {
	return &SessionStore{client: client, userID: userID}
}

// Exists reports whether a session row with this id has been persisted.
func (s *SessionStore) Exists(ctx context.Context, id string) (bool, error) {
	resp, _, err := s.client.From("chat_sessions").
		Select("id", "", false).
		Eq("id", id).
		Eq("user_id", s.userID).
		Execute()
	if err != nil {
		return false, fmt.Errorf("failed to check session existence: %w", err)
	}

	var rows []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp, &rows); err != nil {
		return false, fmt.Errorf("failed to decode session lookup: %w", err)
	}
	return len(rows) > 0, nil
}

// Upsert writes the full session, inserting on first save and updating
// afterwards, decided by an existence lookup on the id. Returns the stored
// form. Writing the same final session twice yields the same row.
func (s *SessionStore) Upsert(ctx context.Context, session types.ChatSession) (types.ChatSession, error) {
	session.UserID = s.userID

	exists, err := s.Exists(ctx, session.ID)
	if err != nil {
		return types.ChatSession{}, err
	}

	var resp []byte
	if exists {
		resp, _, err = s.client.From("chat_sessions").
			Update(map[string]interface{}{
				"title":    session.Title,
				"note_ids": session.NoteIDs,
				"messages": session.Messages,
			}, "", "").
			Eq("id", session.ID).
			Eq("user_id", s.userID).
			Execute()
		if err != nil {
			return types.ChatSession{}, fmt.Errorf("failed to update session: %w", err)
		}
	} else {
		resp, _, err = s.client.From("chat_sessions").
			Insert([]types.ChatSession{session}, false, "", "", "").
			Execute()
		if err != nil {
			return types.ChatSession{}, fmt.Errorf("failed to insert session: %w", err)
		}
	}

	var stored []types.ChatSession
	if err := json.Unmarshal(resp, &stored); err != nil {
		return types.ChatSession{}, fmt.Errorf("failed to decode stored session: %w", err)
	}
	if len(stored) == 0 {
		return types.ChatSession{}, fmt.Errorf("no session row returned from store")
	}
	return stored[0], nil
}

// GetSessions lists the caller's sessions, newest first.
func GetSessions(client *supabase.Client, userID string) ([]types.ChatSession, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	resp, _, err := client.From("chat_sessions").
		Select("*", "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, err
	}

	var sessions []types.ChatSession
	if err := json.Unmarshal(resp, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode session data: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes a session row for good. Callers must drop any
// in-memory reference to the session afterwards.
func DeleteSession(client *supabase.Client, sessionID, userID string) error {
	_, _, err := client.From("chat_sessions").
		Delete("", "").
		Eq("id", sessionID).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
