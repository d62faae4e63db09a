// File: visitor.go
// Title: TINY Syntax Tree Visitors
// Description: Visitor pattern, depth-first walk and the two text forms of
//              a tree: the indented outline and the compact s-expression.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial visitor implementation

package ast

import (
	"fmt"
	"strings"
)

// Visitor receives one call per node kind
type Visitor interface {
	VisitProgram(n *Node) interface{}
	VisitIf(n *Node) interface{}
	VisitRepeat(n *Node) interface{}
	VisitAssign(n *Node, l Assign) interface{}
	VisitRead(n *Node, l Read) interface{}
	VisitWrite(n *Node) interface{}
	VisitBinOp(n *Node, l BinOp) interface{}
	VisitConst(n *Node, l Const) interface{}
	VisitIdent(n *Node, l Ident) interface{}
}

// Accept dispatches n to the matching method of v
func (n *Node) Accept(v Visitor) interface{} {
	switch l := n.Label.(type) {
	case Program:
		return v.VisitProgram(n)
	case If:
		return v.VisitIf(n)
	case Repeat:
		return v.VisitRepeat(n)
	case Assign:
		return v.VisitAssign(n, l)
	case Read:
		return v.VisitRead(n, l)
	case Write:
		return v.VisitWrite(n)
	case BinOp:
		return v.VisitBinOp(n, l)
	case Const:
		return v.VisitConst(n, l)
	case Ident:
		return v.VisitIdent(n, l)
	}
	panic(fmt.Sprintf("ast: unknown label %T", n.Label))
}

// BaseVisitor returns nil for every node.
// Embed it in concrete visitors to only override needed methods.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(*Node) interface{}        { return nil }
func (BaseVisitor) VisitIf(*Node) interface{}             { return nil }
func (BaseVisitor) VisitRepeat(*Node) interface{}         { return nil }
func (BaseVisitor) VisitAssign(*Node, Assign) interface{} { return nil }
func (BaseVisitor) VisitRead(*Node, Read) interface{}     { return nil }
func (BaseVisitor) VisitWrite(*Node) interface{}          { return nil }
func (BaseVisitor) VisitBinOp(*Node, BinOp) interface{}   { return nil }
func (BaseVisitor) VisitConst(*Node, Const) interface{}   { return nil }
func (BaseVisitor) VisitIdent(*Node, Ident) interface{}   { return nil }

// Walk visits n and everything below it in depth-first order. Chained
// statements are visited right after their predecessor's subtree, at the
// same depth. Returning false from fn skips the node's children.
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		for _, s := range c.Sequence() {
			walk(s, depth+1, fn)
		}
	}
}

// StringVisitor builds the indented outline of a tree, two spaces per level
type StringVisitor struct {
	buffer strings.Builder
	indent int
}

// NewStringVisitor creates a new string visitor
func NewStringVisitor() *StringVisitor {
	return &StringVisitor{}
}

// String returns the built outline
func (sv *StringVisitor) String() string {
	return sv.buffer.String()
}

// Reset clears the internal buffer
func (sv *StringVisitor) Reset() {
	sv.buffer.Reset()
	sv.indent = 0
}

func (sv *StringVisitor) line(n *Node) interface{} {
	sv.buffer.WriteString(strings.Repeat("  ", sv.indent))
	sv.buffer.WriteString(n.String())
	sv.buffer.WriteByte('\n')

	sv.indent++
	for _, c := range n.Children {
		for _, s := range c.Sequence() {
			s.Accept(sv)
		}
	}
	sv.indent--
	return nil
}

func (sv *StringVisitor) VisitProgram(n *Node) interface{}          { return sv.line(n) }
func (sv *StringVisitor) VisitIf(n *Node) interface{}               { return sv.line(n) }
func (sv *StringVisitor) VisitRepeat(n *Node) interface{}           { return sv.line(n) }
func (sv *StringVisitor) VisitAssign(n *Node, _ Assign) interface{} { return sv.line(n) }
func (sv *StringVisitor) VisitRead(n *Node, _ Read) interface{}     { return sv.line(n) }
func (sv *StringVisitor) VisitWrite(n *Node) interface{}            { return sv.line(n) }
func (sv *StringVisitor) VisitBinOp(n *Node, _ BinOp) interface{}   { return sv.line(n) }
func (sv *StringVisitor) VisitConst(n *Node, _ Const) interface{}   { return sv.line(n) }
func (sv *StringVisitor) VisitIdent(n *Node, _ Ident) interface{}   { return sv.line(n) }

// Outline returns the indented outline of n
func Outline(n *Node) string {
	sv := NewStringVisitor()
	n.Accept(sv)
	return sv.String()
}

// Sexpr returns the compact form of n without its successors, e.g.
// BinOp(-)(BinOp(-)(Const(1),Const(2)),Const(3)). Chained statements
// inside a child are separated by ";".
func Sexpr(n *Node) string {
	var b strings.Builder
	writeSexpr(&b, n)
	return b.String()
}

func writeSexpr(b *strings.Builder, n *Node) {
	b.WriteString(n.String())
	if len(n.Children) == 0 {
		return
	}
	b.WriteByte('(')
	for i, c := range n.Children {
		if i > 0 {
			b.WriteByte(',')
		}
		for j, s := range c.Sequence() {
			if j > 0 {
				b.WriteByte(';')
			}
			writeSexpr(b, s)
		}
	}
	b.WriteByte(')')
}
