package naming

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"castgraph/backend/internal/roster"
	apperrors "castgraph/backend/pkg/errors"
	"castgraph/backend/pkg/logger"
)

// ErrRequestPending is returned when Start or Refine is called while a request is in flight.
var ErrRequestPending = apperrors.ErrNamingRequestPending

// ErrSessionDiscarded is returned when a session was discarded before its response arrived.
var ErrSessionDiscarded = apperrors.ErrNamingSessionDiscarded

// Session is the conversation used to obtain a name for one character.
// At most one request is in flight; a failed request leaves the history as it was.
type Session struct {
	mu          sync.Mutex
	id          uuid.UUID
	chapter     int
	characterID int
	suggester   Suggester
	history     []Message
	pending     bool
	discarded   bool
	logger      *zap.Logger
}

// NewSession creates an empty session for the character with the given id in chapter.
// The session names that character only, whatever the caller selects afterwards.
func NewSession(suggester Suggester, chapter, characterID int) *Session {
	id := uuid.New()
	return &Session{
		id:          id,
		chapter:     chapter,
		characterID: characterID,
		suggester:   suggester,
		history:     []Message{},
		logger:      logger.Named("naming").With(zap.String("session_id", id.String())),
	}
}

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Chapter is the chapter the named character lives in.
func (s *Session) Chapter() int {
	return s.chapter
}

// CharacterID is the character this session names.
func (s *Session) CharacterID() int {
	return s.characterID
}

// Target looks the named character up in its chapter. It is false once the
// character has been deleted.
func (s *Session) Target(store Finder) (roster.Character, bool) {
	return store.Find(s.chapter, s.characterID)
}

// History returns a copy of the conversation so far.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message{}, s.history...)
}

// Pending reports whether a request is in flight. Callers disable their triggers while it is true.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Discard abandons the session; a response still in flight is dropped.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discarded = true
}

// LastSuggestion returns the most recent assistant reply.
func (s *Session) LastSuggestion() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].Role == RoleAssistant {
			return s.history[i].Content, true
		}
	}
	return "", false
}

// Start asks for a first suggestion with an empty history.
func (s *Session) Start(ctx context.Context, c roster.Character, resolve Resolver) (string, error) {
	s.mu.Lock()
	if err := s.readyLocked(); err != nil {
		s.mu.Unlock()
		return "", err
	}
	s.history = []Message{}
	req := BuildRequest(nil, c, resolve)
	s.pending = true
	s.mu.Unlock()

	return s.complete(ctx, req)
}

// Refine re-sends the conversation, first appending message as a user turn when it is non-nil.
func (s *Session) Refine(ctx context.Context, c roster.Character, resolve Resolver, message *string) (string, error) {
	s.mu.Lock()
	if err := s.readyLocked(); err != nil {
		s.mu.Unlock()
		return "", err
	}
	if message != nil {
		s.history = append(s.history, Message{Role: RoleUser, Content: *message})
	}
	req := BuildRequest(s.history, c, resolve)
	s.pending = true
	s.mu.Unlock()

	return s.complete(ctx, req)
}

// Accept writes name into the store as the named character's name.
func (s *Session) Accept(store Modifier, name string) {
	store.Modify(s.chapter, roster.ID(s.characterID), func(c roster.Character) roster.Character {
		return c.WithName(name)
	})
	s.logger.Info("Name suggestion accepted",
		zap.Int("chapter", s.chapter),
		zap.Int("character_id", s.characterID),
		zap.String("name", name),
	)
}

func (s *Session) readyLocked() error {
	if s.discarded {
		return ErrSessionDiscarded
	}
	if s.pending {
		return ErrRequestPending
	}
	return nil
}

func (s *Session) complete(ctx context.Context, req Request) (string, error) {
	s.logger.Debug("Requesting name suggestion",
		zap.Int("character_id", s.characterID),
		zap.Int("histories", len(req.Histories)),
		zap.Int("characteristics", len(req.Characteristics)),
		zap.Int("relationships", len(req.Relationships)),
	)

	content, err := s.suggester.Suggest(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false

	if s.discarded {
		s.logger.Debug("Dropping response for discarded session")
		return "", ErrSessionDiscarded
	}
	if err != nil {
		s.logger.Warn("Name suggestion failed", zap.Error(err))
		return "", fmt.Errorf("suggest name: %w", err)
	}

	s.history = append(s.history, Message{Role: RoleAssistant, Content: content})
	return content, nil
}
