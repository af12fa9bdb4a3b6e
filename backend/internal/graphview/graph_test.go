package graphview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"castgraph/backend/internal/roster"
)

func TestProject_Empty(t *testing.T) {
	g := Project(nil)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
	assert.NotNil(t, g.Edges)
}

func TestProject_OneNodePerCharacterOneEdgePerRelationship(t *testing.T) {
	chars := []roster.Character{
		roster.NewCharacter(0).
			WithRelationship(roster.Relationship{ToID: 1, Description: "is a rival"}).
			WithRelationship(roster.Relationship{ToID: 2, Description: "loves"}),
		roster.NewCharacter(1).
			WithRelationship(roster.Relationship{ToID: 0, Description: "fears"}),
		roster.NewCharacter(2),
	}

	g := Project(chars)

	require.Len(t, g.Nodes, 3)
	require.Len(t, g.Edges, 3)
	assert.Equal(t, Node{ID: 0, Label: "Character 1"}, g.Nodes[0])
	assert.Equal(t, Edge{From: 0, To: 1, Label: "is a rival", Arrows: ArrowTo}, g.Edges[0])
	assert.Equal(t, Edge{From: 1, To: 0, Label: "fears", Arrows: ArrowTo}, g.Edges[2])
	assert.Empty(t, g.Dangling())
}

func TestProject_KeepsDanglingEdgeAfterDelete(t *testing.T) {
	s := roster.NewStore()
	s.Add(0)
	s.Add(0)
	s.Modify(0, roster.ID(1), func(c roster.Character) roster.Character { return c.WithName("Bob") })
	s.Modify(0, roster.ID(0), func(c roster.Character) roster.Character {
		return c.WithRelationship(roster.Relationship{ToID: 1, Description: "is a rival"})
	})

	want := Edge{From: 0, To: 1, Label: "is a rival", Arrows: ArrowTo}
	assert.Equal(t, []Edge{want}, Project(s.List(0)).Edges)

	s.Delete(0, roster.ID(1))

	g := Project(s.List(0))
	assert.Len(t, g.Nodes, 1)
	assert.Equal(t, []Edge{want}, g.Edges)
	assert.Equal(t, []Edge{want}, g.Dangling())
}
