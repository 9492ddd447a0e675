// Package chat coordinates one question/answer exchange against a chat
// session: it drives the streaming answer protocol, keeps a working copy of
// the message list while the answer is in flight, and hands the finished
// session to the session store exactly once.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"echonotes/ai-backend/config"
	"echonotes/ai-backend/types"
)

var (
	// ErrEmptyInput rejects a blank question before any network call.
	ErrEmptyInput = errors.New("empty question")

	// ErrExchangeInFlight means another question is still streaming for the
	// same session.
	ErrExchangeInFlight = errors.New("another exchange is already in flight for this session")
)

// NoteStore looks up grounding notes by id. Read-only.
type NoteStore interface {
	Lookup(ctx context.Context, ids []string) ([]types.Note, error)
}

// SessionStore persists finished sessions. Upsert inserts or updates by
// session id (the store decides via an existence lookup) and returns the
// canonical stored form.
type SessionStore interface {
	Exists(ctx context.Context, id string) (bool, error)
	Upsert(ctx context.Context, session types.ChatSession) (types.ChatSession, error)
}

// Streamer is the streaming answer protocol.
type Streamer interface {
	AskStream(ctx context.Context, notes []types.Note, question string, history []types.ChatMessage, useExternalSearch bool) (<-chan types.StreamEvent, <-chan error)
}

// Per-session exchange lifecycle. Modeled as an explicit state machine so the
// "never persist a placeholder" invariant is a matter of which transitions can
// reach the store, not of scattered flags.
type exchangeState int

const (
	stateIdle exchangeState = iota
	stateAwaitingStream
	stateCommitting
	stateRollingBack
)

// Exchanger runs exchanges. One Exchanger is shared across requests; it
// guarantees at most one in-flight exchange per session id.
type Exchanger struct {
	streamer Streamer

	mu     sync.Mutex
	states map[string]exchangeState
}

func NewExchanger(streamer Streamer) *Exchanger {
	return &Exchanger{
		streamer: streamer,
		states:   make(map[string]exchangeState),
	}
}

// NewSession creates a not-yet-persisted session over the given notes.
func NewSession(userID string, noteIDs []string) types.ChatSession {
	return types.ChatSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
		NoteIDs:   noteIDs,
		Messages:  []types.ChatMessage{},
	}
}

func (e *Exchanger) begin(sessionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.states[sessionID] != stateIdle {
		return ErrExchangeInFlight
	}
	e.states[sessionID] = stateAwaitingStream
	return nil
}

func (e *Exchanger) transition(sessionID string, state exchangeState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if state == stateIdle {
		delete(e.states, sessionID)
		return
	}
	e.states[sessionID] = state
}

// Ask runs one exchange: appends the question and a placeholder answer to a
// working copy of the session, streams the answer into the placeholder, and on
// success persists the completed session once. onEvent, if non-nil, receives
// every stream event as it is applied, for callers relaying progress.
//
// On any failure the placeholder never reaches the store: the input session is
// returned unchanged alongside the error.
func (e *Exchanger) Ask(ctx context.Context, notes NoteStore, sessions SessionStore, session types.ChatSession, question string, useExternalSearch bool, onEvent func(types.StreamEvent)) (types.ChatSession, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return session, ErrEmptyInput
	}

	if err := e.begin(session.ID); err != nil {
		return session, err
	}
	defer e.transition(session.ID, stateIdle)

	// History is the conversation as it stood before this exchange; the new
	// user message and the placeholder are never sent to the backend.
	history := append([]types.ChatMessage(nil), session.Messages...)

	working := append([]types.ChatMessage(nil), history...)
	working = append(working,
		types.ChatMessage{Sender: types.SenderUser, Text: question},
		types.ChatMessage{Sender: types.SenderAssistant},
	)
	placeholder := &working[len(working)-1]

	grounding, err := notes.Lookup(ctx, session.NoteIDs)
	if err != nil {
		e.transition(session.ID, stateRollingBack)
		return session, fmt.Errorf("failed to load grounding notes: %w", err)
	}

	events, errs := e.streamer.AskStream(ctx, grounding, question, history, useExternalSearch)

	for ev := range events {
		applyEvent(placeholder, ev)
		if onEvent != nil {
			onEvent(ev)
		}
	}
	if err := <-errs; err != nil {
		// Drop the placeholder, keep nothing: the exchange never happened as
		// far as persistence is concerned.
		e.transition(session.ID, stateRollingBack)
		return session, err
	}

	e.transition(session.ID, stateCommitting)

	if len(history) == 0 {
		session.Title = deriveTitle(question)
	}
	session.Messages = working

	stored, err := sessions.Upsert(ctx, session)
	if err != nil {
		return session, fmt.Errorf("failed to save session: %w", err)
	}
	return stored, nil
}

// applyEvent folds one stream event into the placeholder: text deltas append,
// citation events replace their list wholesale.
func applyEvent(msg *types.ChatMessage, ev types.StreamEvent) {
	switch ev.Kind {
	case types.EventTextDelta:
		msg.Text += ev.TextDelta
	case types.EventNoteCitations:
		msg.NoteCitations = ev.NoteCitations
	case types.EventWebCitations:
		msg.WebCitations = ev.WebCitations
	}
}

// deriveTitle takes the leading characters of the first question.
func deriveTitle(question string) string {
	runes := []rune(question)
	if len(runes) <= config.SessionTitleMaxLen {
		return question
	}
	return string(runes[:config.SessionTitleMaxLen])
}
