// File: nodes.go
// Title: TINY Syntax Tree Nodes
// Description: Defines the syntax tree produced by the parser. A node has
//              a label from a closed set, structural children and a link
//              to the next statement of its sequence. Statement sequences
//              are chains, not children of a block node.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial node and label definitions

package ast

import (
	"github.com/msto63/tiny/foundation/tiny/token"
)

// Label identifies the construct a node represents. The set of labels is
// closed: Program, If, Repeat, Assign, Read, Write, BinOp, Const, Ident.
type Label interface {
	String() string
	label()
}

// Program is the root of every tree
type Program struct{}

// If has children [condition, then-sequence] or [condition, then-sequence, else-sequence]
type If struct{}

// Repeat has children [body-sequence, condition]
type Repeat struct{}

// Assign has children [value]
type Assign struct{ Name string }

// Read has no children
type Read struct{ Name string }

// Write has children [value]
type Write struct{}

// BinOp has children [left, right]; Op is one of + - * / < =
type BinOp struct{ Op token.Kind }

// Const is a numeric literal kept as written
type Const struct{ Value string }

// Ident is a variable reference
type Ident struct{ Name string }

func (Program) label() {}
func (If) label()      {}
func (Repeat) label()  {}
func (Assign) label()  {}
func (Read) label()    {}
func (Write) label()   {}
func (BinOp) label()   {}
func (Const) label()   {}
func (Ident) label()   {}

func (Program) String() string  { return "Program" }
func (If) String() string       { return "If" }
func (Repeat) String() string   { return "Repeat" }
func (l Assign) String() string { return "Assign(" + l.Name + ")" }
func (l Read) String() string   { return "Read(" + l.Name + ")" }
func (Write) String() string    { return "Write" }
func (l BinOp) String() string  { return "BinOp(" + l.Op.Text() + ")" }
func (l Const) String() string  { return "Const(" + l.Value + ")" }
func (l Ident) String() string  { return "Ident(" + l.Name + ")" }

// Node is one element of the syntax tree
type Node struct {
	Label    Label
	Children []*Node

	// Next is the following statement of the same sequence
	Next *Node

	// Pos is the index of the first token of the construct
	Pos int
}

// NewProgram wraps the top-level statement sequence
func NewProgram(body *Node) *Node {
	return &Node{Label: Program{}, Children: []*Node{body}}
}

// NewIf creates an if statement; els may be nil
func NewIf(pos int, cond, then, els *Node) *Node {
	n := &Node{Label: If{}, Pos: pos, Children: []*Node{cond, then}}
	if els != nil {
		n.Children = append(n.Children, els)
	}
	return n
}

// NewRepeat creates a repeat statement
func NewRepeat(pos int, body, cond *Node) *Node {
	return &Node{Label: Repeat{}, Pos: pos, Children: []*Node{body, cond}}
}

// NewAssign creates an assignment of value to name
func NewAssign(pos int, name string, value *Node) *Node {
	return &Node{Label: Assign{Name: name}, Pos: pos, Children: []*Node{value}}
}

// NewRead creates a read statement
func NewRead(pos int, name string) *Node {
	return &Node{Label: Read{Name: name}, Pos: pos}
}

// NewWrite creates a write statement
func NewWrite(pos int, value *Node) *Node {
	return &Node{Label: Write{}, Pos: pos, Children: []*Node{value}}
}

// NewBinOp creates an operator application; its position is the left operand's
func NewBinOp(op token.Kind, left, right *Node) *Node {
	return &Node{Label: BinOp{Op: op}, Pos: left.Pos, Children: []*Node{left, right}}
}

// NewConst creates a number leaf
func NewConst(pos int, value string) *Node {
	return &Node{Label: Const{Value: value}, Pos: pos}
}

// NewIdent creates an identifier leaf
func NewIdent(pos int, name string) *Node {
	return &Node{Label: Ident{Name: name}, Pos: pos}
}

// String returns the label text of the node
func (n *Node) String() string {
	if n == nil || n.Label == nil {
		return "<nil>"
	}
	return n.Label.String()
}

// IsStatement reports whether the node may take part in a sequence chain
func (n *Node) IsStatement() bool {
	switch n.Label.(type) {
	case If, Repeat, Assign, Read, Write:
		return true
	}
	return false
}

// IsExpression reports whether the node is an operator or a leaf
func (n *Node) IsExpression() bool {
	switch n.Label.(type) {
	case BinOp, Const, Ident:
		return true
	}
	return false
}

// Sequence returns n followed by every statement chained after it
func (n *Node) Sequence() []*Node {
	var out []*Node
	for cur := n; cur != nil; cur = cur.Next {
		out = append(out, cur)
	}
	return out
}

// Last returns the final statement of the chain starting at n
func (n *Node) Last() *Node {
	cur := n
	for cur.Next != nil {
		cur = cur.Next
	}
	return cur
}

// Child returns the i-th child or nil
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Body returns the top-level statement sequence of a Program
func (n *Node) Body() *Node {
	if _, ok := n.Label.(Program); !ok {
		return nil
	}
	return n.Child(0)
}

// Count returns the number of nodes reachable from n through children and
// chains, n included. Successors of n itself are not counted.
func Count(n *Node) int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		for _, s := range c.Sequence() {
			total += Count(s)
		}
	}
	return total
}

// Depth returns the height of the tree below n; chained statements share
// their head's depth.
func Depth(n *Node) int {
	if n == nil {
		return 0
	}
	deepest := 0
	for _, c := range n.Children {
		for _, s := range c.Sequence() {
			if d := Depth(s); d > deepest {
				deepest = d
			}
		}
	}
	return deepest + 1
}
