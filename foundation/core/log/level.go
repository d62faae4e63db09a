// File: level.go
// Title: Log Level Definitions
// Description: Log levels used to filter output. Audit entries bypass the
//              filter and are used for the record of completed runs.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with standard log levels
// - 2026-10-19 v0.2.0: Level names shared with the configuration file

package log

import (
	"strings"
)

// Level represents the importance level of a log message
type Level int

const (
	// LevelTrace logs every token and grammar rule
	LevelTrace Level = iota

	// LevelDebug logs stage transitions and decisions
	LevelDebug

	// LevelInfo is the default level
	LevelInfo

	// LevelWarn marks aborted or retried runs
	LevelWarn

	// LevelError marks failures of infrastructure
	LevelError

	// LevelFatal is logged right before the process exits
	LevelFatal

	// LevelAudit is always logged
	LevelAudit
)

var levelNames = map[Level][2]string{
	LevelTrace: {"trace", "TRC"},
	LevelDebug: {"debug", "DBG"},
	LevelInfo:  {"info", "INF"},
	LevelWarn:  {"warn", "WRN"},
	LevelError: {"error", "ERR"},
	LevelFatal: {"fatal", "FTL"},
	LevelAudit: {"audit", "AUD"},
}

// String returns the string representation of the log level
func (l Level) String() string {
	if n, ok := levelNames[l]; ok {
		return n[0]
	}
	return "unknown"
}

// ShortString returns the three letter form used by the text formatter
func (l Level) ShortString() string {
	if n, ok := levelNames[l]; ok {
		return n[1]
	}
	return "???"
}

// Color returns the ANSI color code for the log level
func (l Level) Color() string {
	switch l {
	case LevelTrace:
		return "\033[37m"
	case LevelDebug:
		return "\033[36m"
	case LevelInfo:
		return "\033[32m"
	case LevelWarn:
		return "\033[33m"
	case LevelError:
		return "\033[31m"
	case LevelFatal:
		return "\033[35m"
	case LevelAudit:
		return "\033[34m"
	default:
		return "\033[0m"
	}
}

// ShouldLog returns true if this level should be logged given the minimum level
func (l Level) ShouldLog(minLevel Level) bool {
	if l == LevelAudit {
		return true
	}
	return l >= minLevel
}

// ParseLevel parses a string into a log level
func ParseLevel(level string) (Level, error) {
	s := strings.ToLower(strings.TrimSpace(level))
	switch s {
	case "warning":
		return LevelWarn, nil
	case "information":
		return LevelInfo, nil
	}
	for l, n := range levelNames {
		if s == n[0] || s == strings.ToLower(n[1]) {
			return l, nil
		}
	}
	return LevelInfo, &ParseError{Input: level, Type: "level"}
}

// ParseError represents an error parsing a log configuration value
type ParseError struct {
	Input string
	Type  string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return "invalid " + e.Type + ": " + e.Input
}

// DefaultLevel returns the level used when nothing is configured
func DefaultLevel() Level {
	return LevelInfo
}
