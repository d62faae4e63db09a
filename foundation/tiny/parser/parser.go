// File: parser.go
// Title: TINY Recursive Descent Parser
// Description: Builds the syntax tree of a TINY program from its token
//              sequence. One forward cursor, dispatch on the current token
//              kind, no backtracking and no error recovery: the first
//              malformed construct is reported and the parse fails.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial parser implementation

package parser

import (
	"fmt"
	"io"
	"strings"

	tinylog "github.com/msto63/tiny/foundation/core/log"
	"github.com/msto63/tiny/foundation/tiny/ast"
	"github.com/msto63/tiny/foundation/tiny/diag"
	"github.com/msto63/tiny/foundation/tiny/token"
)

// Options configures parser behavior
type Options struct {
	Logger *tinylog.Logger

	// Trace receives one line per grammar rule entered and left
	Trace io.Writer

	// Reporter is consulted on the first syntax error
	Reporter diag.Reporter
}

// Parser implements recursive descent parsing for TINY. A Parser may be
// reused but not shared between goroutines.
type Parser struct {
	tokens []token.Token
	pos    int

	logger   *tinylog.Logger
	trace    io.Writer
	depth    int
	reporter diag.Reporter
}

// New creates a new TINY parser with the given options
func New(opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = tinylog.GetDefault()
	}
	return &Parser{
		logger:   opts.Logger.WithField("component", "tiny-parser"),
		trace:    opts.Trace,
		reporter: opts.Reporter,
	}
}

// Parse parses tokens with default options
func Parse(tokens []token.Token) (*ast.Node, error) {
	return New(Options{Logger: tinylog.Discard()}).Parse(tokens)
}

// Parse builds the tree for a complete program. Every token must be
// consumed. Failures are *diag.Error values with StageParse whose position
// is the index of the offending token, or len(tokens) at end of input.
func (p *Parser) Parse(tokens []token.Token) (*ast.Node, error) {
	p.tokens = tokens
	p.pos = 0
	p.depth = 0

	p.logger.Debug("Starting TINY parsing", tinylog.Fields{"tokens": len(tokens)})

	body, err := p.parseStmtSequence()
	if err != nil {
		return nil, err
	}

	if !p.atEnd() {
		return nil, p.parseError("unexpected trailing input: found %s", p.describe())
	}

	root := ast.NewProgram(body)
	p.logger.Debug("TINY parsing completed successfully", tinylog.Fields{
		"statements": len(body.Sequence()),
		"nodes":      ast.Count(root),
	})
	return root, nil
}

// stmt_sequence := statement (";" statement)*
func (p *Parser) parseStmtSequence() (*ast.Node, error) {
	defer p.enter("stmt_sequence")()

	head, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	tail := head
	for p.match(token.Semicolon) {
		next, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		tail.Next = next
		tail = next
	}
	return head, nil
}

// statement := if_stmt | repeat_stmt | assign_stmt | read_stmt | write_stmt
func (p *Parser) parseStatement() (*ast.Node, error) {
	defer p.enter("statement")()

	var (
		stmt *ast.Node
		err  error
	)
	switch p.peek() {
	case token.If:
		stmt, err = p.parseIf()
	case token.Repeat:
		stmt, err = p.parseRepeat()
	case token.Identifier:
		stmt, err = p.parseAssign()
	case token.Read:
		stmt, err = p.parseRead()
	case token.Write:
		stmt, err = p.parseWrite()
	default:
		return nil, p.parseError("invalid statement: expected 'if', 'repeat', 'read', 'write' or an identifier, found %s", p.describe())
	}
	if err != nil {
		return nil, err
	}

	p.logger.Trace("Statement parsed", tinylog.Fields{"label": stmt.String(), "pos": stmt.Pos})
	return stmt, nil
}

// if_stmt := "if" exp "then" stmt_sequence ["else" stmt_sequence] "end"
func (p *Parser) parseIf() (*ast.Node, error) {
	defer p.enter("if_stmt")()

	start := p.pos
	p.advance()

	cond, err := p.parseExp()
	if err != nil {
		return nil, err
	}
	if err := p.need(token.Then, "after the if condition"); err != nil {
		return nil, err
	}
	then, err := p.parseStmtSequence()
	if err != nil {
		return nil, err
	}

	var els *ast.Node
	if p.match(token.Else) {
		if els, err = p.parseStmtSequence(); err != nil {
			return nil, err
		}
	}

	if err := p.need(token.End, "to close 'if'"); err != nil {
		return nil, err
	}
	return ast.NewIf(start, cond, then, els), nil
}

// repeat_stmt := "repeat" stmt_sequence "until" exp
func (p *Parser) parseRepeat() (*ast.Node, error) {
	defer p.enter("repeat_stmt")()

	start := p.pos
	p.advance()

	body, err := p.parseStmtSequence()
	if err != nil {
		return nil, err
	}
	if err := p.need(token.Until, "to close 'repeat'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExp()
	if err != nil {
		return nil, err
	}
	return ast.NewRepeat(start, body, cond), nil
}

// assign_stmt := IDENTIFIER ":=" exp
func (p *Parser) parseAssign() (*ast.Node, error) {
	defer p.enter("assign_stmt")()

	start := p.pos
	name := p.advance().Lexeme

	if err := p.need(token.Assign, fmt.Sprintf("after '%s'", name)); err != nil {
		return nil, err
	}
	value, err := p.parseExp()
	if err != nil {
		return nil, err
	}
	return ast.NewAssign(start, name, value), nil
}

// read_stmt := "read" IDENTIFIER
func (p *Parser) parseRead() (*ast.Node, error) {
	defer p.enter("read_stmt")()

	start := p.pos
	p.advance()

	if p.peek() != token.Identifier {
		return nil, p.parseError("expected an identifier after 'read', found %s", p.describe())
	}
	return ast.NewRead(start, p.advance().Lexeme), nil
}

// write_stmt := "write" exp
func (p *Parser) parseWrite() (*ast.Node, error) {
	defer p.enter("write_stmt")()

	start := p.pos
	p.advance()

	value, err := p.parseExp()
	if err != nil {
		return nil, err
	}
	return ast.NewWrite(start, value), nil
}

// exp := simple_exp [("<" | "=") simple_exp]
// The comparison does not associate: a second comparison is an error.
func (p *Parser) parseExp() (*ast.Node, error) {
	defer p.enter("exp")()

	left, err := p.parseSimpleExp()
	if err != nil {
		return nil, err
	}
	if p.atEnd() || !p.peek().IsComparison() {
		return left, nil
	}

	op := p.advance().Kind
	right, err := p.parseSimpleExp()
	if err != nil {
		return nil, err
	}

	if !p.atEnd() && p.peek().IsComparison() {
		return nil, p.parseError("comparison operators do not chain: found a second %s", p.describe())
	}
	return ast.NewBinOp(op, left, right), nil
}

// simple_exp := term (("+" | "-") term)*
func (p *Parser) parseSimpleExp() (*ast.Node, error) {
	defer p.enter("simple_exp")()

	return p.parseLeftAssoc(p.parseTerm, token.Plus, token.Minus)
}

// term := factor (("*" | "/") factor)*
func (p *Parser) parseTerm() (*ast.Node, error) {
	defer p.enter("term")()

	return p.parseLeftAssoc(p.parseFactor, token.Mult, token.Div)
}

// parseLeftAssoc folds operand (op operand)* to the left
func (p *Parser) parseLeftAssoc(operand func() (*ast.Node, error), ops ...token.Kind) (*ast.Node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchAny(ops...)
		if !ok {
			return left, nil
		}
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinOp(op, left, right)
	}
}

// factor := "(" exp ")" | NUMBER | IDENTIFIER
func (p *Parser) parseFactor() (*ast.Node, error) {
	defer p.enter("factor")()

	if p.atEnd() {
		return nil, p.parseError("invalid factor: expected '(', a number or an identifier, found %s", p.describe())
	}

	start := p.pos
	switch p.peek() {
	case token.OpenBracket:
		p.advance()
		inner, err := p.parseExp()
		if err != nil {
			return nil, err
		}
		if err := p.need(token.CloseBracket, "to close '('"); err != nil {
			return nil, err
		}
		return inner, nil
	case token.Number:
		return ast.NewConst(start, p.advance().Lexeme), nil
	case token.Identifier:
		return ast.NewIdent(start, p.advance().Lexeme), nil
	}
	return nil, p.parseError("invalid factor: expected '(', a number or an identifier, found %s", p.describe())
}

// Token helpers

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

// peek returns the current token kind; callers check atEnd where the
// zero kind would be ambiguous
func (p *Parser) peek() token.Kind {
	if p.atEnd() {
		return token.Kind(255)
	}
	return p.tokens[p.pos].Kind
}

func (p *Parser) advance() token.Token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *Parser) match(kind token.Kind) bool {
	if !p.atEnd() && p.peek() == kind {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) matchAny(kinds ...token.Kind) (token.Kind, bool) {
	for _, k := range kinds {
		if p.match(k) {
			return k, true
		}
	}
	return 0, false
}

// need consumes a mandatory token or fails naming it
func (p *Parser) need(kind token.Kind, context string) error {
	if p.match(kind) {
		return nil
	}
	return p.parseError("expected '%s' %s, found %s", kind.Text(), context, p.describe())
}

// describe names the current token for error messages
func (p *Parser) describe() string {
	if p.atEnd() {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", p.tokens[p.pos].Lexeme)
}

func (p *Parser) line() int {
	switch {
	case len(p.tokens) == 0:
		return 0
	case p.atEnd():
		return p.tokens[len(p.tokens)-1].Line
	default:
		return p.tokens[p.pos].Line
	}
}

// parseError reports a syntax error at the cursor
func (p *Parser) parseError(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	err := diag.Raise(p.reporter, diag.Diagnostic{
		Stage:    diag.StageParse,
		Position: p.pos,
		Line:     p.line(),
		Message:  msg,
	})
	p.logger.Debug("TINY parsing failed", tinylog.Fields{
		"position": p.pos,
		"message":  msg,
		"decision": err.Decision.String(),
	})
	p.tracef("! %s", msg)
	return err
}

// enter writes the rule to the trace and returns the matching exit
func (p *Parser) enter(rule string) func() {
	if p.trace == nil {
		return func() {}
	}
	p.tracef("%s at %d", rule, p.pos)
	p.depth++
	return func() {
		p.depth--
		p.tracef("end %s at %d", rule, p.pos)
	}
}

func (p *Parser) tracef(format string, args ...interface{}) {
	if p.trace == nil {
		return
	}
	fmt.Fprintf(p.trace, "%s%s\n", strings.Repeat(". ", p.depth), fmt.Sprintf(format, args...))
}
