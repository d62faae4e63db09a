// ============================================================================
// TINY - Scanner/Parser Workbench
// ============================================================================
//
// Package:     render
// Description: Indented tree outline, optionally colored with lipgloss
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/tiny/foundation/tiny/ast"
	"github.com/msto63/tiny/foundation/tiny/token"
)

// Color palette for outlines
var (
	ColorStatement  = lipgloss.Color("#8B5CF6") // Violet
	ColorExpression = lipgloss.Color("#06B6D4") // Cyan
	ColorProgram    = lipgloss.Color("#F59E0B") // Amber
	ColorPosition   = lipgloss.Color("#64748B") // Slate 500
)

var (
	statementStyle  = lipgloss.NewStyle().Foreground(ColorStatement).Bold(true)
	expressionStyle = lipgloss.NewStyle().Foreground(ColorExpression)
	programStyle    = lipgloss.NewStyle().Foreground(ColorProgram).Bold(true)
	positionStyle   = lipgloss.NewStyle().Foreground(ColorPosition)
)

// OutlineOptions controls Outline
type OutlineOptions struct {
	Color     bool
	Positions bool // append "@pos" to every line
}

// Outline returns the two-space indented outline of the tree below root.
// Without options it matches ast.Outline.
func Outline(root *ast.Node, opts OutlineOptions) string {
	if root == nil {
		return ""
	}
	var b strings.Builder
	ast.Walk(root, func(n *ast.Node, depth int) bool {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(styleLabel(n, opts.Color))
		if opts.Positions {
			pos := fmt.Sprintf(" @%d", n.Pos)
			if opts.Color {
				pos = positionStyle.Render(pos)
			}
			b.WriteString(pos)
		}
		b.WriteByte('\n')
		return true
	})
	return b.String()
}

func styleLabel(n *ast.Node, color bool) string {
	label := n.String()
	if !color {
		return label
	}
	switch {
	case n.IsStatement():
		return statementStyle.Render(label)
	case n.IsExpression():
		return expressionStyle.Render(label)
	default:
		return programStyle.Render(label)
	}
}

// Tokens returns the "lexeme : KIND" listing, one token per line
func Tokens(tokens []token.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// TokenTable returns the listing with the index and source line of every
// token, aligned in columns
func TokenTable(tokens []token.Token) string {
	width := len(fmt.Sprint(len(tokens)))
	lexWidth := 0
	for _, t := range tokens {
		if len(t.Lexeme) > lexWidth {
			lexWidth = len(t.Lexeme)
		}
	}

	var b strings.Builder
	for i, t := range tokens {
		fmt.Fprintf(&b, "%*d  %-*s  %-12s line %d\n", width, i, lexWidth, t.Lexeme, t.Kind, t.Line)
	}
	return b.String()
}
