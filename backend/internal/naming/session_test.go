package naming

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"castgraph/backend/internal/roster"
)

type mockSuggester struct {
	requests []Request
	replies  []string
	err      error
	// When set, Suggest signals entered and waits for release.
	entered chan struct{}
	release chan struct{}
}

func (m *mockSuggester) Suggest(ctx context.Context, req Request) (string, error) {
	m.requests = append(m.requests, req)
	if m.entered != nil {
		m.entered <- struct{}{}
		<-m.release
	}
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return `How about "Mira"?`, nil
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return reply, nil
}

func strPtr(s string) *string { return &s }

func newCast(t *testing.T) (*roster.Store, roster.Character) {
	t.Helper()
	s := roster.NewStore()
	s.Add(0)
	s.Add(0)
	s.Modify(0, roster.ID(1), func(c roster.Character) roster.Character { return c.WithName("Bob") })
	s.Modify(0, roster.ID(0), func(c roster.Character) roster.Character {
		return c.WithCharacteristic("is short tempered").
			WithRelationship(roster.Relationship{ToID: 1, Description: "is a rival"}).
			WithRelationship(roster.Relationship{ToID: 9, Description: "owes money to"})
	})
	c, ok := s.Find(0, 0)
	require.True(t, ok)
	return s, c
}

func resolverFor(s *roster.Store, chapter int) Resolver {
	return func(id int) (string, bool) { return s.NameOf(chapter, id) }
}

func TestSession_StartWithoutRelationshipsSendsEmptyList(t *testing.T) {
	mock := &mockSuggester{}
	sess := NewSession(mock, 0, 0)

	reply, err := sess.Start(context.Background(), roster.NewCharacter(0), nil)
	require.NoError(t, err)

	require.Len(t, mock.requests, 1)
	req := mock.requests[0]
	assert.NotNil(t, req.Relationships)
	assert.Empty(t, req.Relationships)
	assert.Empty(t, req.Histories)
	assert.Equal(t, []Message{{Role: RoleAssistant, Content: reply}}, sess.History())
	assert.False(t, sess.Pending())
}

func TestSession_StartResolvesRelationshipNames(t *testing.T) {
	s, c := newCast(t)
	mock := &mockSuggester{}
	sess := NewSession(mock, 0, c.ID)

	_, err := sess.Start(context.Background(), c, resolverFor(s, 0))
	require.NoError(t, err)

	req := mock.requests[0]
	assert.Equal(t, []string{"is short tempered"}, req.Characteristics)
	assert.Equal(t, []RelationshipHint{
		{To: "Bob", Description: "is a rival"},
		{To: FallbackRelationName, Description: "owes money to"},
	}, req.Relationships)
}

func TestSession_RefineAppendsUserBeforeAssistant(t *testing.T) {
	mock := &mockSuggester{replies: []string{`"Ayla"`, `"Seraphine"`}}
	sess := NewSession(mock, 0, 0)
	c := roster.NewCharacter(0)

	_, err := sess.Start(context.Background(), c, nil)
	require.NoError(t, err)

	_, err = sess.Refine(context.Background(), c, nil, strPtr("Give me more elegant name"))
	require.NoError(t, err)

	assert.Equal(t, []Message{
		{Role: RoleAssistant, Content: `"Ayla"`},
		{Role: RoleUser, Content: "Give me more elegant name"},
		{Role: RoleAssistant, Content: `"Seraphine"`},
	}, sess.History())

	// The second request carries the history including the new user turn.
	assert.Equal(t, []Message{
		{Role: RoleAssistant, Content: `"Ayla"`},
		{Role: RoleUser, Content: "Give me more elegant name"},
	}, mock.requests[1].Histories)
}

func TestSession_RefineWithoutMessage(t *testing.T) {
	mock := &mockSuggester{replies: []string{"one", "two"}}
	sess := NewSession(mock, 0, 0)
	c := roster.NewCharacter(0)

	_, err := sess.Start(context.Background(), c, nil)
	require.NoError(t, err)
	_, err = sess.Refine(context.Background(), c, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []Message{
		{Role: RoleAssistant, Content: "one"},
		{Role: RoleAssistant, Content: "two"},
	}, sess.History())
}

func TestSession_FailureKeepsHistory(t *testing.T) {
	mock := &mockSuggester{replies: []string{"first"}}
	sess := NewSession(mock, 0, 0)
	c := roster.NewCharacter(0)

	_, err := sess.Start(context.Background(), c, nil)
	require.NoError(t, err)

	boom := errors.New("upstream down")
	mock.err = boom
	_, err = sess.Refine(context.Background(), c, nil, strPtr(RejectMessage))
	require.ErrorIs(t, err, boom)

	assert.False(t, sess.Pending())
	assert.Equal(t, []Message{
		{Role: RoleAssistant, Content: "first"},
		{Role: RoleUser, Content: RejectMessage},
	}, sess.History())
	last, ok := sess.LastSuggestion()
	require.True(t, ok)
	assert.Equal(t, "first", last)
}

func TestSession_RejectsWhilePending(t *testing.T) {
	mock := &mockSuggester{entered: make(chan struct{}), release: make(chan struct{})}
	sess := NewSession(mock, 0, 0)
	c := roster.NewCharacter(0)

	done := make(chan error, 1)
	go func() {
		_, err := sess.Start(context.Background(), c, nil)
		done <- err
	}()

	<-mock.entered
	assert.True(t, sess.Pending())

	_, err := sess.Refine(context.Background(), c, nil, strPtr("again"))
	assert.ErrorIs(t, err, ErrRequestPending)
	assert.Empty(t, sess.History())

	close(mock.release)
	require.NoError(t, <-done)
	assert.False(t, sess.Pending())
	assert.Len(t, sess.History(), 1)
}

func TestSession_DiscardDropsInFlightResponse(t *testing.T) {
	mock := &mockSuggester{entered: make(chan struct{}), release: make(chan struct{})}
	sess := NewSession(mock, 0, 0)

	done := make(chan error, 1)
	go func() {
		_, err := sess.Start(context.Background(), roster.NewCharacter(0), nil)
		done <- err
	}()

	<-mock.entered
	sess.Discard()
	close(mock.release)

	assert.ErrorIs(t, <-done, ErrSessionDiscarded)
	assert.Empty(t, sess.History())
	assert.False(t, sess.Pending())

	_, err := sess.Start(context.Background(), roster.NewCharacter(0), nil)
	assert.ErrorIs(t, err, ErrSessionDiscarded)
}

func TestSession_AcceptWritesName(t *testing.T) {
	s, c := newCast(t)
	sess := NewSession(&mockSuggester{}, 0, c.ID)

	sess.Accept(s, "Mira")

	name, ok := s.NameOf(0, c.ID)
	require.True(t, ok)
	assert.Equal(t, "Mira", name)
	// Accepting goes through Modify, so the character moves to the end.
	cs := s.List(0)
	assert.Equal(t, c.ID, cs[len(cs)-1].ID)
}

func TestSession_AcceptStaleCharacterIsNoop(t *testing.T) {
	s, _ := newCast(t)
	sess := NewSession(&mockSuggester{}, 0, 42)
	before := s.List(0)

	sess.Accept(s, "Mira")

	assert.Equal(t, before, s.List(0))
}

func TestSession_TargetReadsCurrentAnnotations(t *testing.T) {
	s, c := newCast(t)
	mock := &mockSuggester{}
	sess := NewSession(mock, 0, c.ID)

	_, err := sess.Start(context.Background(), c, resolverFor(s, 0))
	require.NoError(t, err)

	s.Modify(0, roster.ID(c.ID), func(ch roster.Character) roster.Character { return ch.WithCharacteristic("likes tea") })
	s.Modify(0, roster.ID(1), func(ch roster.Character) roster.Character { return ch.WithName("Robert") })

	current, ok := sess.Target(s)
	require.True(t, ok)
	_, err = sess.Refine(context.Background(), current, resolverFor(s, 0), nil)
	require.NoError(t, err)

	req := mock.requests[1]
	assert.Equal(t, []string{"is short tempered", "likes tea"}, req.Characteristics)
	assert.Equal(t, "Robert", req.Relationships[0].To)
}

func TestSession_TargetStaysInItsChapter(t *testing.T) {
	s, c := newCast(t)
	other := s.Add(1)
	sess := NewSession(&mockSuggester{}, 0, c.ID)

	_, ok := sess.Target(s)
	assert.True(t, ok)

	elsewhere := NewSession(&mockSuggester{}, 0, other.ID)
	_, ok = elsewhere.Target(s)
	assert.False(t, ok)

	s.Delete(0, roster.ID(c.ID))
	_, ok = sess.Target(s)
	assert.False(t, ok)
}

func TestSession_AcceptUsesItsChapter(t *testing.T) {
	s, _ := newCast(t)
	other := s.Add(1)
	sess := NewSession(&mockSuggester{}, 1, other.ID)

	sess.Accept(s, "Mira")

	name, ok := s.NameOf(1, other.ID)
	require.True(t, ok)
	assert.Equal(t, "Mira", name)
	assert.Equal(t, 1, sess.Chapter())
}
