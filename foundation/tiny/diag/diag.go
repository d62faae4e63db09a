// File: diag.go
// Title: TINY Diagnostics Boundary
// Description: The capability the scanner and parser call on malformed
//              input. A Reporter sees the failure and answers with a
//              Decision; the decision travels back to the driving loop in
//              the returned *Error.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial reporter, decision and error types

package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Stage names the core component that failed
type Stage int

const (
	StageScan Stage = iota
	StageParse
)

// String returns the lower-case stage name
func (s Stage) String() string {
	switch s {
	case StageScan:
		return "scan"
	case StageParse:
		return "parse"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Decision is the reporter's answer to a diagnostic
type Decision int

const (
	// Abort propagates the failure to the caller
	Abort Decision = iota
	// Retry asks the caller to reload the input and start over
	Retry
	// Terminate asks the caller to stop processing altogether
	Terminate
)

// String returns the lower-case decision name
func (d Decision) String() string {
	switch d {
	case Abort:
		return "abort"
	case Retry:
		return "retry"
	case Terminate:
		return "terminate"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// ParseDecision accepts the names and the single-letter answers r, a and q
func ParseDecision(s string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "abort":
		return Abort, nil
	case "r", "retry":
		return Retry, nil
	case "q", "quit", "t", "terminate":
		return Terminate, nil
	}
	return Abort, fmt.Errorf("unknown decision %q", s)
}

// Diagnostic describes one fatal scan or parse condition. Position is the
// index of the raw lexeme (scan) or token (parse) at which it occurred.
type Diagnostic struct {
	Stage    Stage
	Position int
	Line     int
	Message  string
}

// String formats the diagnostic for people
func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s error at token %d (line %d): %s", d.Stage, d.Position, d.Line, d.Message)
	}
	return fmt.Sprintf("%s error at token %d: %s", d.Stage, d.Position, d.Message)
}

// Reporter is the diagnostics boundary
type Reporter interface {
	Report(d Diagnostic) Decision
}

// ReporterFunc adapts a function to the Reporter interface
type ReporterFunc func(d Diagnostic) Decision

// Report calls f(d)
func (f ReporterFunc) Report(d Diagnostic) Decision {
	return f(d)
}

// Fixed returns a reporter that always answers with decision
func Fixed(decision Decision) Reporter {
	return ReporterFunc(func(Diagnostic) Decision { return decision })
}

// Sentinels matched by errors.Is against an *Error of the same stage
var (
	ErrScan  = errors.New("scan error")
	ErrParse = errors.New("parse error")
)

// Error is the typed failure returned by the scanner and parser
type Error struct {
	Diagnostic
	Decision Decision
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Diagnostic.String()
}

// Is matches the stage sentinel
func (e *Error) Is(target error) bool {
	switch target {
	case ErrScan:
		return e.Stage == StageScan
	case ErrParse:
		return e.Stage == StageParse
	}
	return false
}

// Raise reports d to r and returns the resulting error. A nil reporter
// aborts.
func Raise(r Reporter, d Diagnostic) *Error {
	decision := Abort
	if r != nil {
		decision = r.Report(d)
	}
	return &Error{Diagnostic: d, Decision: decision}
}

// DecisionOf returns the decision carried by err, or Abort when err holds
// no *Error.
func DecisionOf(err error) Decision {
	var de *Error
	if errors.As(err, &de) {
		return de.Decision
	}
	return Abort
}
