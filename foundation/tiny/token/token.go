// File: token.go
// Title: TINY Token Definitions
// Description: Defines the token kinds of the TINY language and the Token
//              value passed from the scanner to the parser. Kind names are
//              stable and shared with alternate scanners.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial token kinds and keyword/symbol tables

package token

import "fmt"

// Kind is the category a lexeme is classified into
type Kind uint8

const (
	Identifier Kind = iota
	Number

	// keywords
	If
	Then
	Else
	End
	Repeat
	Until
	Read
	Write

	// symbols
	Plus
	Minus
	Mult
	Div
	OpenBracket
	CloseBracket
	LessThan
	Equal
	Semicolon
	Assign
	OpenBrace
	CloseBrace

	numKinds
)

var kindNames = [numKinds]string{
	Identifier:   "IDENTIFIER",
	Number:       "NUMBER",
	If:           "IF",
	Then:         "THEN",
	Else:         "ELSE",
	End:          "END",
	Repeat:       "REPEAT",
	Until:        "UNTIL",
	Read:         "READ",
	Write:        "WRITE",
	Plus:         "PLUS",
	Minus:        "MINUS",
	Mult:         "MULT",
	Div:          "DIV",
	OpenBracket:  "OPENBRACKET",
	CloseBracket: "CLOSEBRACKET",
	LessThan:     "LESSTHAN",
	Equal:        "EQUAL",
	Semicolon:    "SEMICOLON",
	Assign:       "ASSIGN",
	OpenBrace:    "OPENBRACE",
	CloseBrace:   "CLOSEBRACE",
}

// keywords are matched exactly and case-sensitively
var keywords = map[string]Kind{
	"if":     If,
	"then":   Then,
	"else":   Else,
	"end":    End,
	"repeat": Repeat,
	"until":  Until,
	"read":   Read,
	"write":  Write,
}

var symbols = map[string]Kind{
	"+":  Plus,
	"-":  Minus,
	"*":  Mult,
	"/":  Div,
	"(":  OpenBracket,
	")":  CloseBracket,
	"<":  LessThan,
	"=":  Equal,
	";":  Semicolon,
	":=": Assign,
	"{":  OpenBrace,
	"}":  CloseBrace,
}

// String returns the stable upper-case name of the kind
func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsKeyword reports whether k is one of the reserved words
func (k Kind) IsKeyword() bool {
	return k >= If && k <= Write
}

// IsSymbol reports whether k is an operator or punctuation symbol
func (k Kind) IsSymbol() bool {
	return k >= Plus && k <= CloseBrace
}

// IsComparison reports whether k may join two simple expressions
func (k Kind) IsComparison() bool {
	return k == LessThan || k == Equal
}

// Text returns the fixed spelling of a keyword or symbol kind, or the
// kind name for identifiers and numbers.
func (k Kind) Text() string {
	for s, kk := range keywords {
		if kk == k {
			return s
		}
	}
	for s, kk := range symbols {
		if kk == k {
			return s
		}
	}
	return k.String()
}

// ParseKind returns the kind with the given upper-case name
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Kinds returns every kind in declaration order
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Lookup classifies a complete lexeme as a keyword or symbol
func Lookup(lexeme string) (Kind, bool) {
	if k, ok := keywords[lexeme]; ok {
		return k, true
	}
	k, ok := symbols[lexeme]
	return k, ok
}

// Symbols returns the spelling of every symbol
func Symbols() []string {
	out := make([]string, 0, len(symbols))
	for s := range symbols {
		out = append(out, s)
	}
	return out
}

// Token is one classified lexeme. Line is 1-based and used only in diagnostics.
type Token struct {
	Lexeme string
	Kind   Kind
	Line   int
}

// New creates a token without line information
func New(lexeme string, kind Kind) Token {
	return Token{Lexeme: lexeme, Kind: kind}
}

// String renders the token the way the token log writes it
func (t Token) String() string {
	return t.Lexeme + " : " + t.Kind.String()
}

// Equal compares lexeme and kind; the line is ignored
func (t Token) Equal(o Token) bool {
	return t.Lexeme == o.Lexeme && t.Kind == o.Kind
}
