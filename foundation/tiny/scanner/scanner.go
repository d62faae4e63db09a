// File: scanner.go
// Title: TINY Lexical Scanner
// Description: Converts TINY source text into an ordered token sequence.
//              Symbols are padded with whitespace, the text is split into
//              raw lexemes line by line, and each lexeme is classified as a
//              keyword, a symbol, a comment region or a run of letters and
//              digits. The first malformed lexeme aborts the scan.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial scanner implementation

package scanner

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	tinylog "github.com/msto63/tiny/foundation/core/log"
	"github.com/msto63/tiny/foundation/tiny/diag"
	"github.com/msto63/tiny/foundation/tiny/token"
)

var (
	// leftmost-first alternation keeps ":=" from being split
	symbolPattern = regexp.MustCompile(`:=|[-+*/()<=;{}]`)
	runPattern    = regexp.MustCompile(`[A-Za-z]+|[0-9]+|[^A-Za-z0-9]`)
	identPattern  = regexp.MustCompile(`^[A-Za-z]+$`)
	numberPattern = regexp.MustCompile(`^[0-9]+$`)
)

// Options configures scanner behavior
type Options struct {
	Logger *tinylog.Logger

	// TokenLog receives one "lexeme : KIND" line per token
	TokenLog io.Writer

	// Reporter is consulted on the first malformed lexeme
	Reporter diag.Reporter
}

// Scanner turns source text into tokens. A Scanner keeps no state between
// calls to Scan.
type Scanner struct {
	logger   *tinylog.Logger
	tokenLog io.Writer
	reporter diag.Reporter
}

// lexeme is a whitespace-separated piece of the padded source
type lexeme struct {
	text string
	line int
}

// New creates a scanner with the given options
func New(opts Options) *Scanner {
	if opts.Logger == nil {
		opts.Logger = tinylog.GetDefault()
	}
	return &Scanner{
		logger:   opts.Logger.WithField("component", "tiny-scanner"),
		tokenLog: opts.TokenLog,
		reporter: opts.Reporter,
	}
}

// Scan scans source with default options
func Scan(source string) ([]token.Token, error) {
	return New(Options{Logger: tinylog.Discard()}).Scan(source)
}

// Scan converts source into tokens. Failures are *diag.Error values with
// StageScan whose position is the index of the offending raw lexeme.
func (s *Scanner) Scan(source string) ([]token.Token, error) {
	raw := split(source)
	s.logger.Debug("Starting TINY scan", tinylog.Fields{
		"bytes":   len(source),
		"lexemes": len(raw),
	})

	var tokens []token.Token
	for i := 0; i < len(raw); i++ {
		lx := raw[i]

		kind, ok := token.Lookup(lx.text)
		switch {
		case ok && kind == token.OpenBrace:
			end := closingBrace(raw, i+1)
			if end < 0 {
				return nil, s.fail(i, lx.line, "unterminated comment: no '}' closes the '{'")
			}
			s.logger.Trace("Comment skipped", tinylog.Fields{"from": i, "to": end})
			i = end
			continue
		case ok && kind == token.CloseBrace:
			return nil, s.fail(i, lx.line, "unmatched '}' without an opening '{'")
		case ok:
			tokens = append(tokens, token.Token{Lexeme: lx.text, Kind: kind, Line: lx.line})
			continue
		}

		for _, run := range runPattern.FindAllString(lx.text, -1) {
			kind, ok := classifyRun(run)
			if !ok {
				return nil, s.fail(i, lx.line, fmt.Sprintf("invalid token %q", run))
			}
			tokens = append(tokens, token.Token{Lexeme: run, Kind: kind, Line: lx.line})
		}
	}

	if len(tokens) == 0 {
		return nil, s.fail(0, 0, "no tokens found")
	}

	if s.tokenLog != nil {
		if err := WriteTokens(s.tokenLog, tokens); err != nil {
			s.logger.WarnWithErr("Token log not written", err)
		}
	}

	s.logger.Debug("TINY scan completed", tinylog.Fields{"tokens": len(tokens)})
	return tokens, nil
}

func (s *Scanner) fail(pos, line int, msg string) error {
	err := diag.Raise(s.reporter, diag.Diagnostic{
		Stage:    diag.StageScan,
		Position: pos,
		Line:     line,
		Message:  msg,
	})
	s.logger.Debug("TINY scan failed", tinylog.Fields{
		"position": pos,
		"line":     line,
		"message":  msg,
		"decision": err.Decision.String(),
	})
	return err
}

// split pads symbols and splits every line on whitespace
func split(source string) []lexeme {
	var out []lexeme
	for n, line := range strings.Split(source, "\n") {
		for _, f := range strings.Fields(symbolPattern.ReplaceAllString(line, " $0 ")) {
			out = append(out, lexeme{text: f, line: n + 1})
		}
	}
	return out
}

// closingBrace returns the index of the next "}" at or after from, or -1.
// Comments do not nest.
func closingBrace(raw []lexeme, from int) int {
	for j := from; j < len(raw); j++ {
		if raw[j].text == "}" {
			return j
		}
	}
	return -1
}

func classifyRun(run string) (token.Kind, bool) {
	switch {
	case identPattern.MatchString(run):
		return token.Identifier, true
	case numberPattern.MatchString(run):
		return token.Number, true
	}
	return 0, false
}

// WriteTokens writes the "lexeme : KIND" listing of tokens to w
func WriteTokens(w io.Writer, tokens []token.Token) error {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.String())
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
