package editor

import (
	"context"

	"go.uber.org/zap"

	"castgraph/backend/internal/naming"
)

// Naming is the view of the current naming session.
func (e *Editor) Naming() *naming.Session {
	return e.session
}

// NamingPending reports whether a suggestion request is in flight.
func (e *Editor) NamingPending() bool {
	return e.session != nil && e.session.Pending()
}

// StartNaming opens a new naming session for the selected character and asks
// for a first suggestion. Any previous session is discarded. With no
// resolvable selection it does nothing.
func (e *Editor) StartNaming(ctx context.Context) (string, error) {
	c, ok := e.Selected()
	if !ok {
		return "", nil
	}
	if e.session != nil {
		e.session.Discard()
	}
	e.session = naming.NewSession(e.suggester, e.chapter, c.ID)
	e.chosenName = ""

	e.logger.Debug("Naming session started",
		zap.String("session_id", e.session.ID().String()),
		zap.Int("chapter", e.chapter),
		zap.Int("character_id", c.ID),
	)
	return e.session.Start(ctx, c, e.resolverFor(e.chapter))
}

// RefineNaming re-sends the conversation, with message as a new user turn when non-nil.
// The request describes the character the session was started for, re-read from
// its chapter so edits made since Start are included. Selecting another character
// or switching chapters does not change the target. Once that character is
// deleted it does nothing.
func (e *Editor) RefineNaming(ctx context.Context, message *string) (string, error) {
	if e.session == nil {
		return "", nil
	}
	c, ok := e.session.Target(e.store)
	if !ok {
		return "", nil
	}
	return e.session.Refine(ctx, c, e.resolverFor(e.session.Chapter()), message)
}

// RejectSuggestion asks for another name.
func (e *Editor) RejectSuggestion(ctx context.Context) (string, error) {
	msg := naming.RejectMessage
	return e.RefineNaming(ctx, &msg)
}

// SetRefinePrompt replaces the free-form refinement buffer.
func (e *Editor) SetRefinePrompt(text string) {
	e.inputRefinePrompt = text
}

// RefineWithPrompt sends the refinement buffer as a user turn.
func (e *Editor) RefineWithPrompt(ctx context.Context) (string, error) {
	msg := e.inputRefinePrompt
	return e.RefineNaming(ctx, &msg)
}

// ChooseSuggestion marks name as the one to accept.
func (e *Editor) ChooseSuggestion(name string) {
	e.chosenName = name
}

// ChosenName returns the chosen suggestion.
func (e *Editor) ChosenName() string {
	return e.chosenName
}

// AcceptSuggestion renames the character being named to the chosen name. The
// name buffer follows only while that character is the resolved selection.
// Without a session or a chosen name it does nothing.
func (e *Editor) AcceptSuggestion() bool {
	if e.session == nil || e.chosenName == "" {
		return false
	}
	e.session.Accept(e.store, e.chosenName)
	if c, ok := e.Selected(); ok && c.ID == e.session.CharacterID() && e.chapter == e.session.Chapter() {
		e.inputName = e.chosenName
	}
	return true
}

// LastSuggestion returns the latest reply of the current session.
func (e *Editor) LastSuggestion() (string, bool) {
	if e.session == nil {
		return "", false
	}
	return e.session.LastSuggestion()
}

// CloseNaming discards the current session.
func (e *Editor) CloseNaming() {
	if e.session != nil {
		e.session.Discard()
		e.session = nil
	}
}
