// Package editor holds the interactive state of one writer's editing session:
// the active chapter, the selected character and the form buffers that are
// committed to the roster on save.
package editor

import (
	"go.uber.org/zap"

	"castgraph/backend/internal/graphview"
	"castgraph/backend/internal/naming"
	"castgraph/backend/internal/roster"
	"castgraph/backend/pkg/logger"
)

// Editor is the selection and form state over a Store.
// Switching chapters keeps the selection and buffers; a selected id that does
// not resolve in the active chapter behaves as no selection.
type Editor struct {
	store     *roster.Store
	suggester naming.Suggester
	logger    *zap.Logger

	chapter  int
	selected *int

	inputName                    string
	inputCharacteristic          string
	inputRelationshipToID        *int
	inputRelationshipDescription string
	inputRefinePrompt            string
	chosenName                   string

	session *naming.Session
}

// New creates an editor on chapter 0 with nothing selected.
func New(store *roster.Store, suggester naming.Suggester) *Editor {
	return &Editor{
		store:     store,
		suggester: suggester,
		logger:    logger.Named("editor"),
	}
}

// Chapter returns the active chapter index.
func (e *Editor) Chapter() int {
	return e.chapter
}

// NextChapter moves to the following chapter.
func (e *Editor) NextChapter() {
	e.chapter++
}

// PrevChapter moves to the previous chapter, stopping at 0.
func (e *Editor) PrevChapter() {
	if e.chapter > 0 {
		e.chapter--
	}
}

// Characters lists the active chapter.
func (e *Editor) Characters() []roster.Character {
	return e.store.List(e.chapter)
}

// Graph projects the active chapter.
func (e *Editor) Graph() graphview.Graph {
	return graphview.Project(e.store.List(e.chapter))
}

// AddCharacter adds a default character to the active chapter.
func (e *Editor) AddCharacter() roster.Character {
	c := e.store.Add(e.chapter)
	e.logger.Debug("Character added", zap.Int("chapter", e.chapter), zap.Int("id", c.ID))
	return c
}

// Select sets the selected id and, when it resolves, seeds the name buffer.
// A nil id clears the selection.
func (e *Editor) Select(id *int) {
	e.selected = id
	if c, ok := e.Selected(); ok {
		e.inputName = c.Name
	}
}

// SelectedID returns the raw selected id, which may be stale.
func (e *Editor) SelectedID() *int {
	return e.selected
}

// Selected resolves the selection in the active chapter.
func (e *Editor) Selected() (roster.Character, bool) {
	if e.selected == nil {
		return roster.Character{}, false
	}
	return e.store.Find(e.chapter, *e.selected)
}

// DeleteSelected removes the selected character from the active chapter.
func (e *Editor) DeleteSelected() {
	e.store.Delete(e.chapter, e.selected)
}

// RelationshipTargets lists the characters a relationship can point at:
// everyone in the active chapter except the selected character.
func (e *Editor) RelationshipTargets() []roster.Character {
	all := e.store.List(e.chapter)
	out := make([]roster.Character, 0, len(all))
	for _, c := range all {
		if e.selected != nil && c.ID == *e.selected {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (e *Editor) modifySelected(transform roster.Transform) {
	e.store.Modify(e.chapter, e.selected, transform)
}

// resolverFor looks names up in chapter.
func (e *Editor) resolverFor(chapter int) naming.Resolver {
	return func(id int) (string, bool) {
		return e.store.NameOf(chapter, id)
	}
}
