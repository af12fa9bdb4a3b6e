package roster

import "fmt"

// Character is a named entity in a chapter's cast.
type Character struct {
	ID              int            `json:"id"`
	Name            string         `json:"name"`
	Characteristics []string       `json:"characteristics"`
	Relationships   []Relationship `json:"relationships"`
}

// Relationship is a directed, described link owned by the source character.
// ToID may reference a character that no longer exists.
type Relationship struct {
	ToID        int    `json:"toId"`
	Description string `json:"description"`
}

// NewCharacter creates a character with the default "Character N" name.
func NewCharacter(id int) Character {
	return Character{
		ID:              id,
		Name:            fmt.Sprintf("Character %d", id+1),
		Characteristics: []string{},
		Relationships:   []Relationship{},
	}
}

// Clone returns a deep copy so callers can't alias the store's slices.
func (c Character) Clone() Character {
	out := c
	out.Characteristics = append([]string{}, c.Characteristics...)
	out.Relationships = append([]Relationship{}, c.Relationships...)
	return out
}

// WithName returns a copy renamed to name.
func (c Character) WithName(name string) Character {
	out := c.Clone()
	out.Name = name
	return out
}

// WithCharacteristic returns a copy with text appended. Duplicates are kept.
func (c Character) WithCharacteristic(text string) Character {
	out := c.Clone()
	out.Characteristics = append(out.Characteristics, text)
	return out
}

// WithoutCharacteristic returns a copy with every entry equal to text removed.
func (c Character) WithoutCharacteristic(text string) Character {
	out := c.Clone()
	kept := out.Characteristics[:0]
	for _, ch := range out.Characteristics {
		if ch != text {
			kept = append(kept, ch)
		}
	}
	out.Characteristics = kept
	return out
}

// WithRelationship returns a copy with rel appended.
func (c Character) WithRelationship(rel Relationship) Character {
	out := c.Clone()
	out.Relationships = append(out.Relationships, rel)
	return out
}

// WithoutRelationship returns a copy without relationships equal to rel.
func (c Character) WithoutRelationship(rel Relationship) Character {
	out := c.Clone()
	kept := out.Relationships[:0]
	for _, r := range out.Relationships {
		if r != rel {
			kept = append(kept, r)
		}
	}
	out.Relationships = kept
	return out
}
