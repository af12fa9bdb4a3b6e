package naming

import (
	"context"

	"castgraph/backend/internal/roster"
)

// Role tags a message in a naming conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	// FallbackRelationName stands in for a relationship target that no longer resolves.
	FallbackRelationName = "a character"
	// RejectMessage is the refinement sent when the writer turns a suggestion down.
	RejectMessage = "No, generate another one."
)

// Message is one turn of the conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// RelationshipHint is a relationship with its target already resolved to a name.
type RelationshipHint struct {
	To          string `json:"to"`
	Description string `json:"description"`
}

// Request is the body of POST /api/name/generate.
type Request struct {
	Histories       []Message          `json:"histories"`
	Characteristics []string           `json:"characteristics"`
	Relationships   []RelationshipHint `json:"relationships"`
}

// Suggester returns one generated name reply for a request.
type Suggester interface {
	Suggest(ctx context.Context, req Request) (string, error)
}

// Resolver looks up a character's current name by id.
type Resolver func(id int) (string, bool)

// Modifier is the part of the store a session writes accepted names through.
type Modifier interface {
	Modify(chapter int, id *int, transform roster.Transform)
}

// Finder is the part of the store a session reads its character from.
type Finder interface {
	Find(chapter, id int) (roster.Character, bool)
}

// BuildRequest assembles a request from a history and the character's current annotations.
// Slices are never nil so they encode as [] rather than null.
func BuildRequest(history []Message, c roster.Character, resolve Resolver) Request {
	req := Request{
		Histories:       append([]Message{}, history...),
		Characteristics: append([]string{}, c.Characteristics...),
		Relationships:   make([]RelationshipHint, 0, len(c.Relationships)),
	}
	for _, rel := range c.Relationships {
		to := FallbackRelationName
		if resolve != nil {
			if name, ok := resolve(rel.ToID); ok {
				to = name
			}
		}
		req.Relationships = append(req.Relationships, RelationshipHint{To: to, Description: rel.Description})
	}
	return req
}
