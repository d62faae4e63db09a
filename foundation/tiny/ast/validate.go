package ast

import (
	"fmt"

	"github.com/msto63/tiny/foundation/tiny/token"
)

// Validate checks the structural invariants of a tree: a Program root with
// exactly one statement child, the arity of every construct, statements
// only where statements belong, chains only between statements, and no
// node reachable twice.
func Validate(root *Node) error {
	if root == nil {
		return fmt.Errorf("tree is empty")
	}
	if _, ok := root.Label.(Program); !ok {
		return fmt.Errorf("root is %s, not Program", root)
	}
	v := &validator{seen: make(map[*Node]bool)}
	return v.node(root)
}

type validator struct {
	seen map[*Node]bool
}

// slot kinds
const (
	stmtSlot = iota
	exprSlot
)

func (v *validator) node(n *Node) error {
	if n == nil {
		return fmt.Errorf("nil node")
	}
	if v.seen[n] {
		return fmt.Errorf("node %s at %d is reachable twice", n, n.Pos)
	}
	v.seen[n] = true

	if n.Next != nil && !n.IsStatement() {
		return fmt.Errorf("%s at %d has a successor but is not a statement", n, n.Pos)
	}

	var slots []int
	switch l := n.Label.(type) {
	case Program:
		slots = []int{stmtSlot}
	case If:
		slots = []int{exprSlot, stmtSlot}
		if len(n.Children) == 3 {
			slots = append(slots, stmtSlot)
		}
	case Repeat:
		slots = []int{stmtSlot, exprSlot}
	case Assign, Write:
		slots = []int{exprSlot}
	case Read, Const, Ident:
	case BinOp:
		switch l.Op {
		case token.Plus, token.Minus, token.Mult, token.Div, token.LessThan, token.Equal:
		default:
			return fmt.Errorf("operator %s at %d is not a binary operator", l.Op, n.Pos)
		}
		slots = []int{exprSlot, exprSlot}
	default:
		return fmt.Errorf("unknown label %T", n.Label)
	}

	if len(n.Children) != len(slots) {
		return fmt.Errorf("%s at %d has %d children, want %d", n, n.Pos, len(n.Children), len(slots))
	}

	for i, c := range n.Children {
		if c == nil {
			return fmt.Errorf("%s at %d has a nil child", n, n.Pos)
		}
		switch slots[i] {
		case stmtSlot:
			for s := c; s != nil; s = s.Next {
				if !s.IsStatement() {
					return fmt.Errorf("%s at %d expects statements, found %s", n, n.Pos, s)
				}
				if err := v.node(s); err != nil {
					return err
				}
			}
		case exprSlot:
			if !c.IsExpression() {
				return fmt.Errorf("%s at %d expects an expression, found %s", n, n.Pos, c)
			}
			if err := v.node(c); err != nil {
				return err
			}
		}
	}
	return nil
}
