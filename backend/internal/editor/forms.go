package editor

import "castgraph/backend/internal/roster"

// Form buffers. Saves that lack a required field are ignored without an error.

// InputName returns the name buffer.
func (e *Editor) InputName() string {
	return e.inputName
}

// SetInputName replaces the name buffer.
func (e *Editor) SetInputName(name string) {
	e.inputName = name
}

// SaveName renames the selected character to the name buffer.
func (e *Editor) SaveName() {
	name := e.inputName
	e.modifySelected(func(c roster.Character) roster.Character {
		return c.WithName(name)
	})
}

// SetInputCharacteristic replaces the characteristic buffer.
func (e *Editor) SetInputCharacteristic(text string) {
	e.inputCharacteristic = text
}

// SaveCharacteristic appends the characteristic buffer to the selected character.
// It reports whether the save went through to the store.
func (e *Editor) SaveCharacteristic() bool {
	if e.inputCharacteristic == "" {
		return false
	}
	text := e.inputCharacteristic
	e.modifySelected(func(c roster.Character) roster.Character {
		return c.WithCharacteristic(text)
	})
	return true
}

// RemoveCharacteristic drops every characteristic equal to text from the selected character.
func (e *Editor) RemoveCharacteristic(text string) {
	e.modifySelected(func(c roster.Character) roster.Character {
		return c.WithoutCharacteristic(text)
	})
}

// SetRelationshipTarget sets the relationship target buffer; nil unsets it.
func (e *Editor) SetRelationshipTarget(id *int) {
	e.inputRelationshipToID = id
}

// SetRelationshipDescription replaces the relationship description buffer.
func (e *Editor) SetRelationshipDescription(text string) {
	e.inputRelationshipDescription = text
}

// SaveRelationship adds the buffered relationship to the selected character.
// It reports whether the save went through to the store.
func (e *Editor) SaveRelationship() bool {
	if e.inputRelationshipToID == nil || e.inputRelationshipDescription == "" {
		return false
	}
	rel := roster.Relationship{
		ToID:        *e.inputRelationshipToID,
		Description: e.inputRelationshipDescription,
	}
	e.modifySelected(func(c roster.Character) roster.Character {
		return c.WithRelationship(rel)
	})
	return true
}

// RemoveRelationship drops the selected character's relationships equal to rel.
func (e *Editor) RemoveRelationship(rel roster.Relationship) {
	e.modifySelected(func(c roster.Character) roster.Character {
		return c.WithoutRelationship(rel)
	})
}
