// Package graphview projects a chapter's characters into the node/edge form
// the graph canvas draws.
package graphview

import "castgraph/backend/internal/roster"

// ArrowTo marks an edge whose arrow head sits on the target node.
const ArrowTo = "to"

// Node is one character on the canvas.
type Node struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Edge is one relationship. To may name a node that is not in the graph.
type Edge struct {
	From   int    `json:"from"`
	To     int    `json:"to"`
	Label  string `json:"label"`
	Arrows string `json:"arrows"`
}

// Graph is the full projection of a chapter.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Project maps characters to one node each and their relationships to one edge each.
// It is recomputed from scratch on every call and does not drop dangling edges.
func Project(characters []roster.Character) Graph {
	g := Graph{
		Nodes: make([]Node, 0, len(characters)),
		Edges: []Edge{},
	}
	for _, c := range characters {
		g.Nodes = append(g.Nodes, Node{ID: c.ID, Label: c.Name})
		for _, rel := range c.Relationships {
			g.Edges = append(g.Edges, Edge{
				From:   c.ID,
				To:     rel.ToID,
				Label:  rel.Description,
				Arrows: ArrowTo,
			})
		}
	}
	return g
}

// Dangling returns the edges whose target has no node in g.
func (g Graph) Dangling() []Edge {
	present := make(map[int]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		present[n.ID] = struct{}{}
	}
	var out []Edge
	for _, e := range g.Edges {
		if _, ok := present[e.To]; !ok {
			out = append(out, e)
		}
	}
	return out
}
