package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/msto63/tiny/foundation/tiny/ast"
	"github.com/msto63/tiny/foundation/tiny/diag"
	"github.com/msto63/tiny/foundation/tiny/scanner"
	"github.com/msto63/tiny/foundation/tiny/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const factorial = `read x;
if 0 < x then
fact := 1;
repeat
fact := fact * x;
x := x - 1
until x = 0;
write fact
end`

func mustScan(t *testing.T, source string) []token.Token {
	t.Helper()
	tokens, err := scanner.Scan(source)
	require.NoError(t, err)
	return tokens
}

func mustParse(t *testing.T, source string) *ast.Node {
	t.Helper()
	root, err := Parse(mustScan(t, source))
	require.NoError(t, err)
	require.NoError(t, ast.Validate(root))
	return root
}

// writeExpr parses "write <expr>" and returns the expression node
func writeExpr(t *testing.T, expr string) *ast.Node {
	t.Helper()
	return mustParse(t, "write "+expr).Body().Child(0)
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"1 - 2 - 3", "BinOp(-)(BinOp(-)(Const(1),Const(2)),Const(3))"},
		{"2 + 3 * 4", "BinOp(+)(Const(2),BinOp(*)(Const(3),Const(4)))"},
		{"2 * 3 + 4", "BinOp(+)(BinOp(*)(Const(2),Const(3)),Const(4))"},
		{"8 / 4 / 2", "BinOp(/)(BinOp(/)(Const(8),Const(4)),Const(2))"},
		{"(1 - 2) * 3", "BinOp(*)(BinOp(-)(Const(1),Const(2)),Const(3))"},
		{"1 - (2 - 3)", "BinOp(-)(Const(1),BinOp(-)(Const(2),Const(3)))"},
		{"a + 1 < b * 2", "BinOp(<)(BinOp(+)(Ident(a),Const(1)),BinOp(*)(Ident(b),Const(2)))"},
		{"x = 0", "BinOp(=)(Ident(x),Const(0))"},
		{"((x))", "Ident(x)"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, ast.Sexpr(writeExpr(t, tt.expr)))
		})
	}
}

func TestStatementChaining(t *testing.T) {
	root := mustParse(t, "read x; write x")

	read := root.Body()
	assert.Equal(t, "Read(x)", read.String())
	assert.Empty(t, read.Children)
	require.NotNil(t, read.Next)

	write := read.Next
	assert.Equal(t, "Write", write.String())
	require.Len(t, write.Children, 1)
	assert.Equal(t, "Ident(x)", write.Children[0].String())
	assert.Nil(t, write.Next)
	assert.Nil(t, write.Children[0].Next)
}

func TestPositions(t *testing.T) {
	root := mustParse(t, "read x; y := (a + 1) * 2")
	assert.Equal(t, 0, root.Pos)

	read := root.Body()
	assert.Equal(t, 0, read.Pos)

	assign := read.Next
	assert.Equal(t, 3, assign.Pos)

	mult := assign.Child(0)
	assert.Equal(t, "BinOp(*)", mult.String())
	// the parenthesized operand starts at "a"
	assert.Equal(t, 6, mult.Pos)
	assert.Equal(t, 6, mult.Child(0).Pos)
	assert.Equal(t, 11, mult.Child(1).Pos)
}

func TestFactorialProgram(t *testing.T) {
	root := mustParse(t, factorial)

	top := root.Body().Sequence()
	require.Len(t, top, 2)
	assert.Equal(t, "Read(x)", top[0].String())

	ifNode := top[1]
	assert.Equal(t, "If", ifNode.String())
	assert.Equal(t, 3, ifNode.Pos)
	require.Len(t, ifNode.Children, 2, "no else branch")
	assert.Equal(t, "BinOp(<)(Const(0),Ident(x))", ast.Sexpr(ifNode.Child(0)))

	then := ifNode.Child(1).Sequence()
	require.Len(t, then, 3)
	assert.Equal(t, "Assign(fact)", then[0].String())
	assert.Equal(t, "Repeat", then[1].String())
	assert.Equal(t, "Write", then[2].String())

	assert.Equal(t,
		"Program(Read(x);If(BinOp(<)(Const(0),Ident(x)),Assign(fact)(Const(1));"+
			"Repeat(Assign(fact)(BinOp(*)(Ident(fact),Ident(x)));Assign(x)(BinOp(-)(Ident(x),Const(1))),"+
			"BinOp(=)(Ident(x),Const(0)));Write(Ident(fact))))",
		ast.Sexpr(root))
	assert.Equal(t, 22, ast.Count(root))
}

func TestIfElse(t *testing.T) {
	root := mustParse(t, "if a = 1 then write 1 else write 2; write 3 end")
	ifNode := root.Body()
	require.Len(t, ifNode.Children, 3)
	assert.Len(t, ifNode.Child(1).Sequence(), 1)
	assert.Len(t, ifNode.Child(2).Sequence(), 2)
}

func TestNestedStatements(t *testing.T) {
	root := mustParse(t, "repeat if x then read y end; x := x - 1 until x = 0")
	rep := root.Body()
	assert.Equal(t, "Repeat", rep.String())
	body := rep.Child(0).Sequence()
	require.Len(t, body, 2)
	assert.Equal(t, "If", body[0].String())
	assert.Equal(t, "Read(y)", body[0].Child(1).String())
	assert.Equal(t, "BinOp(=)", rep.Child(1).String())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		position int
		message  string
	}{
		{"missing end", "if x then write y", 5, "expected 'end' to close 'if', found end of input"},
		{"statement without assign", "if x then y", 4, "expected ':=' after 'y', found end of input"},
		{"missing then", "if x read y end", 2, "expected 'then' after the if condition, found 'read'"},
		{"missing until", "repeat read x", 3, "expected 'until' to close 'repeat', found end of input"},
		{"missing close bracket", "write (1 + 2", 5, "expected ')' to close '(', found end of input"},
		{"chained comparison", "write x < y < z", 4, "comparison operators do not chain: found a second '<'"},
		{"chained equality", "if a = b = c then write a end", 4, "comparison operators do not chain: found a second '='"},
		{"trailing semicolon", "read x;", 3, "invalid statement: expected 'if', 'repeat', 'read', 'write' or an identifier, found end of input"},
		{"empty statement", "read x;; write x", 3, "invalid statement: expected 'if', 'repeat', 'read', 'write' or an identifier, found ';'"},
		{"trailing input", "read x write x", 2, "unexpected trailing input: found 'write'"},
		{"read number", "read 5", 1, "expected an identifier after 'read', found '5'"},
		{"invalid factor", "write +", 1, "invalid factor: expected '(', a number or an identifier, found '+'"},
		{"missing operand", "x := 1 -", 4, "invalid factor: expected '(', a number or an identifier, found end of input"},
		{"leading keyword", "then", 0, "invalid statement: expected 'if', 'repeat', 'read', 'write' or an identifier, found 'then'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse(mustScan(t, tt.source))
			require.Error(t, err)
			assert.Nil(t, root)
			assert.True(t, errors.Is(err, diag.ErrParse))

			var de *diag.Error
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.position, de.Position)
			assert.Equal(t, tt.message, de.Message)
			assert.Equal(t, diag.Abort, de.Decision)
		})
	}
}

func TestParseEmptyTokens(t *testing.T) {
	_, err := Parse(nil)
	var de *diag.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 0, de.Position)
	assert.Equal(t, 0, de.Line)
}

func TestErrorLine(t *testing.T) {
	_, err := Parse(mustScan(t, "read x;\nwrite\n)"))
	var de *diag.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 4, de.Position)
	assert.Equal(t, 3, de.Line)
}

func TestReporterIsCalledOnce(t *testing.T) {
	calls := 0
	p := New(Options{Reporter: diag.ReporterFunc(func(d diag.Diagnostic) diag.Decision {
		calls++
		assert.Equal(t, diag.StageParse, d.Stage)
		assert.Equal(t, 5, d.Position)
		return diag.Terminate
	})})

	_, err := p.Parse(mustScan(t, "if x then write y"))
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, diag.Terminate, diag.DecisionOf(err))
}

func TestParserReuse(t *testing.T) {
	p := New(Options{})
	_, err := p.Parse(mustScan(t, "read"))
	require.Error(t, err)

	root, err := p.Parse(mustScan(t, "read x"))
	require.NoError(t, err)
	assert.Equal(t, "Program(Read(x))", ast.Sexpr(root))
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer
	_, err := New(Options{Trace: &buf}).Parse(mustScan(t, "read x"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"stmt_sequence at 0",
		". statement at 0",
		". . read_stmt at 0",
		". . end read_stmt at 2",
		". end statement at 2",
		"end stmt_sequence at 2",
	}, lines)
}
