// Package error provides structured error handling for the TINY toolchain.
//
// Package: error
// Title: TINY Structured Errors
// Description: Implements a structured error type with codes, severity,
//              details and wrapping. Scanner and parser failures are wrapped
//              into this type by the engine so that logging, the CLI and the
//              history store can classify them uniformly.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-19 v0.2.0: Codes reduced to the scan/parse/engine domain
//
// Usage:
//
//	import tinyerror "github.com/msto63/tiny/foundation/core/error"
//
//	err := tinyerror.Wrap(diagErr, "parse failed").
//		WithCode(tinyerror.CodeParseError).
//		WithDetail("position", 4)
//
//	if tinyerror.HasCode(err, tinyerror.CodeParseError) {
//		// report syntax problem
//	}
package error
