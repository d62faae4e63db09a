// Package log provides structured logging for the TINY toolchain.
//
// Package: log
// Title: TINY Structured Logging
// Description: Structured logger with levels, persistent fields, a run id
//              for correlating the log lines of one engine run, several
//              output formats and a small timer for stage durations. The
//              scanner, parser, engine, history store and CLI all log
//              through this package.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-19 v0.2.0: Run ids instead of request/user ids, async mode removed
//
// Usage:
//
//	import tinylog "github.com/msto63/tiny/foundation/core/log"
//
//	logger := tinylog.New().
//		WithLevel(tinylog.LevelDebug).
//		WithFormat(tinylog.FormatText).
//		WithField("component", "tiny-parser")
//
//	logger.Debug("statement parsed", tinylog.Fields{"kind": "ASSIGN", "pos": 4})
//
//	timer := logger.StartTimer("scan")
//	tokens, err := sc.Scan(src)
//	timer.StopWithError(err)
package log
