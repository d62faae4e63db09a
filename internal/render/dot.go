// ============================================================================
// TINY - Scanner/Parser Workbench
// ============================================================================
//
// Package:     render
// Description: Graphviz DOT output
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/msto63/tiny/foundation/tiny/ast"
)

// DOTOptions controls the DOT writer
type DOTOptions struct {
	// Name of the digraph, "tiny" when empty
	Name string
	// ShowProgram keeps the Program root, which is left out by default
	ShowProgram bool
}

// WriteDOT writes the tree below root as a Graphviz digraph
func WriteDOT(w io.Writer, root *ast.Node, opts DOTOptions) error {
	g := Build(root)
	name := opts.Name
	if name == "" {
		name = "tiny"
	}

	skip := func(id int) bool {
		if opts.ShowProgram || id != 0 || len(g.Vertices) == 0 {
			return false
		}
		_, isProgram := g.Vertices[0].Node.Label.(ast.Program)
		return isProgram
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "digraph %s {\n", quoteDOT(name))
	bw.WriteString("  node [fontname=\"Helvetica\"];\n")

	for _, v := range g.Vertices {
		if skip(v.ID) {
			continue
		}
		fmt.Fprintf(bw, "  n%d [label=%s, shape=%s];\n", v.ID, quoteDOT(v.Label), v.Shape)
	}
	for _, e := range g.Edges {
		if skip(e.From) {
			continue
		}
		if e.Kind == EdgeHidden {
			fmt.Fprintf(bw, "  n%d -> n%d [style=invis];\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(bw, "  n%d -> n%d;\n", e.From, e.To)
	}
	for _, rank := range g.Ranks {
		ids := make([]string, len(rank))
		for i, id := range rank {
			ids[i] = fmt.Sprintf("n%d;", id)
		}
		fmt.Fprintf(bw, "  { rank=same; %s }\n", strings.Join(ids, " "))
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

// DOT returns the digraph as a string
func DOT(root *ast.Node, opts DOTOptions) string {
	var b strings.Builder
	_ = WriteDOT(&b, root, opts)
	return b.String()
}

func quoteDOT(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
