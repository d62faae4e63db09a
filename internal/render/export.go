// ============================================================================
// TINY - Scanner/Parser Workbench
// ============================================================================
//
// Package:     render
// Description: YAML and JSON export of syntax trees
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package render

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/msto63/tiny/foundation/tiny/ast"
)

// Document is the serializable form of a node
type Document struct {
	Label    string      `json:"label" yaml:"label"`
	Kind     string      `json:"kind" yaml:"kind"`
	Pos      int         `json:"pos" yaml:"pos"`
	Children []*Document `json:"children,omitempty" yaml:"children,omitempty"`
	Next     *Document   `json:"next,omitempty" yaml:"next,omitempty"`
}

// NewDocument converts the tree below n, successors included
func NewDocument(n *ast.Node) *Document {
	if n == nil {
		return nil
	}
	doc := &Document{
		Label: n.String(),
		Kind:  kindOf(n),
		Pos:   n.Pos,
	}
	for _, c := range n.Children {
		doc.Children = append(doc.Children, NewDocument(c))
	}
	doc.Next = NewDocument(n.Next)
	return doc
}

func kindOf(n *ast.Node) string {
	switch {
	case n.IsStatement():
		return "statement"
	case n.IsExpression():
		return "expression"
	default:
		return "program"
	}
}

// WriteYAML writes the tree as YAML
func WriteYAML(w io.Writer, root *ast.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(root)); err != nil {
		return err
	}
	return enc.Close()
}

// WriteJSON writes the tree as indented JSON
func WriteJSON(w io.Writer, root *ast.Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(root))
}
