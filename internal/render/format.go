// ============================================================================
// TINY - Scanner/Parser Workbench
// ============================================================================
//
// Package:     render
// Description: Output format selection
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/msto63/tiny/foundation/tiny/ast"
)

// Format selects how a tree is written
type Format string

const (
	FormatText  Format = "text"
	FormatSexpr Format = "sexpr"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatDOT   Format = "dot"
)

// Formats lists every supported format
func Formats() []Format {
	return []Format{FormatText, FormatSexpr, FormatYAML, FormatJSON, FormatDOT}
}

// ParseFormat parses a format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Options bundles the per-format settings for Write
type Options struct {
	Outline OutlineOptions
	DOT     DOTOptions
}

// Write renders the tree below root in the given format
func Write(w io.Writer, root *ast.Node, format Format, opts Options) error {
	switch format {
	case FormatText:
		_, err := io.WriteString(w, Outline(root, opts.Outline))
		return err
	case FormatSexpr:
		_, err := fmt.Fprintln(w, ast.Sexpr(root))
		return err
	case FormatYAML:
		return WriteYAML(w, root)
	case FormatJSON:
		return WriteJSON(w, root)
	case FormatDOT:
		return WriteDOT(w, root, opts.DOT)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
