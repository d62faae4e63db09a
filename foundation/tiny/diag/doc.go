// Package diag is the diagnostics boundary between the TINY core and the
// code that presents failures to a person.
//
// The scanner and parser never decide how to react to bad input. They
// call a Reporter with a Diagnostic, store the returned Decision in an
// *Error and fail fast. The caller inspects the decision: Abort returns the
// error, Retry reloads the input and starts from scratch, Terminate stops
// the caller. Console, Prompt and Fixed are ready-made reporters.
package diag
