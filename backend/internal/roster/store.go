package roster

import (
	"sort"
	"sync"
)

// Transform maps a character to its edited replacement.
type Transform func(Character) Character

// Store holds every chapter's characters in memory.
// Ids come from one counter shared by all chapters and are never reused.
// Nothing is persisted; the contents live as long as the Store.
type Store struct {
	mu       sync.RWMutex
	chapters map[int][]Character
	nextID   int
}

// NewStore creates an empty store whose first character gets id 0.
func NewStore() *Store {
	return &Store{
		chapters: make(map[int][]Character),
	}
}

// List returns a copy of the chapter's characters in order, or an empty slice.
func (s *Store) List(chapter int) []Character {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cs := s.chapters[chapter]
	out := make([]Character, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Clone())
	}
	return out
}

// Add appends a new default character to the chapter and returns it.
func (s *Store) Add(chapter int) Character {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := NewCharacter(s.nextID)
	s.nextID++
	s.chapters[chapter] = append(s.chapters[chapter], c)
	return c.Clone()
}

// Modify replaces the character with the given id by transform(old).
// The replacement is appended, so the edited character moves to the end.
// A nil id or one not present in the chapter is ignored.
// transform runs under the store lock and must not call back into the Store.
func (s *Store) Modify(chapter int, id *int, transform Transform) {
	if id == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cs := s.chapters[chapter]
	idx := indexOf(cs, *id)
	if idx < 0 {
		return
	}

	modified := transform(cs[idx].Clone())
	next := make([]Character, 0, len(cs))
	for _, c := range cs {
		if c.ID != *id {
			next = append(next, c)
		}
	}
	s.chapters[chapter] = append(next, modified)
}

// Delete removes every character with the given id from the chapter.
// Relationships in other characters that point at it are left dangling.
func (s *Store) Delete(chapter int, id *int) {
	if id == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cs, ok := s.chapters[chapter]
	if !ok {
		return
	}
	next := make([]Character, 0, len(cs))
	for _, c := range cs {
		if c.ID != *id {
			next = append(next, c)
		}
	}
	s.chapters[chapter] = next
}

// Find resolves an id within a chapter.
func (s *Store) Find(chapter, id int) (Character, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cs := s.chapters[chapter]
	if idx := indexOf(cs, id); idx >= 0 {
		return cs[idx].Clone(), true
	}
	return Character{}, false
}

// NameOf returns the current name of the character with the given id.
func (s *Store) NameOf(chapter, id int) (string, bool) {
	c, ok := s.Find(chapter, id)
	return c.Name, ok
}

// Chapters returns the indexes of chapters that have been written to, ascending.
func (s *Store) Chapters() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int, 0, len(s.chapters))
	for ch := range s.chapters {
		out = append(out, ch)
	}
	sort.Ints(out)
	return out
}

func indexOf(cs []Character, id int) int {
	for i, c := range cs {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// ID wraps an id for the optional-id parameters of Modify and Delete.
func ID(id int) *int {
	return &id
}
