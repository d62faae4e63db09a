// ============================================================================
// TINY - Scanner/Parser Workbench
// ============================================================================
//
// Package:     render
// Description: Graph layout hints for syntax trees (shapes, edge kinds, ranks)
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package render

import (
	"github.com/msto63/tiny/foundation/tiny/ast"
)

// Shape is the outline drawn around a vertex
type Shape int

const (
	// ShapeBox marks statements and the program root
	ShapeBox Shape = iota
	// ShapeEllipse marks expressions
	ShapeEllipse
)

// String returns the Graphviz shape name
func (s Shape) String() string {
	if s == ShapeEllipse {
		return "ellipse"
	}
	return "box"
}

// ShapeOf returns the shape used for n
func ShapeOf(n *ast.Node) Shape {
	if n.IsExpression() {
		return ShapeEllipse
	}
	return ShapeBox
}

// EdgeKind distinguishes how an edge is drawn
type EdgeKind int

const (
	// EdgeChild is a visible parent to first-child edge
	EdgeChild EdgeKind = iota
	// EdgeHidden keeps a chained statement under its parent for layout only
	EdgeHidden
	// EdgeSibling links a statement to its successor
	EdgeSibling
)

// String returns the edge kind name
func (k EdgeKind) String() string {
	switch k {
	case EdgeHidden:
		return "hidden"
	case EdgeSibling:
		return "sibling"
	default:
		return "child"
	}
}

// Vertex is one tree node in the graph
type Vertex struct {
	ID    int
	Node  *ast.Node
	Label string
	Shape Shape
}

// Edge connects two vertices by ID
type Edge struct {
	From int
	To   int
	Kind EdgeKind
}

// Graph is the drawable form of a syntax tree. Vertices are in preorder,
// so the root is always vertex 0.
type Graph struct {
	Vertices []Vertex
	Edges    []Edge

	// Ranks groups the vertices of every statement chain longer than one,
	// which are drawn side by side
	Ranks [][]int
}

// Build lays out the tree below root. The first statement of a chain hangs
// from its parent by a visible edge; every later one gets a hidden edge from
// the parent and a visible edge from its predecessor.
func Build(root *ast.Node) *Graph {
	g := &Graph{}
	if root != nil {
		g.add(root, -1, EdgeChild)
	}
	return g
}

func (g *Graph) add(n *ast.Node, parent int, kind EdgeKind) int {
	id := len(g.Vertices)
	g.Vertices = append(g.Vertices, Vertex{
		ID:    id,
		Node:  n,
		Label: n.String(),
		Shape: ShapeOf(n),
	})
	if parent >= 0 {
		g.Edges = append(g.Edges, Edge{From: parent, To: id, Kind: kind})
	}

	for _, c := range n.Children {
		prev := -1
		var rank []int
		for _, s := range c.Sequence() {
			if prev < 0 {
				prev = g.add(s, id, EdgeChild)
			} else {
				cur := g.add(s, id, EdgeHidden)
				g.Edges = append(g.Edges, Edge{From: prev, To: cur, Kind: EdgeSibling})
				prev = cur
			}
			rank = append(rank, prev)
		}
		if len(rank) > 1 {
			g.Ranks = append(g.Ranks, rank)
		}
	}
	return id
}

// Vertex returns the vertex with the given id
func (g *Graph) Vertex(id int) (Vertex, bool) {
	if id < 0 || id >= len(g.Vertices) {
		return Vertex{}, false
	}
	return g.Vertices[id], true
}

// EdgesOf returns the edges of the given kind
func (g *Graph) EdgesOf(kind EdgeKind) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
