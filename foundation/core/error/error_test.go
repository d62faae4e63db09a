// File: error_test.go
// Title: Core Error Tests
// Description: Tests construction, wrapping, code lookup and JSON output of
//              the structured Error type.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial test implementation
// - 2026-10-19 v0.2.0: Tests for the TINY codes and run ids

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("scanner failed")

	assert.Equal(t, "scanner failed", err.Error())
	assert.Equal(t, CodeUnknown, err.Code())
	assert.Equal(t, SeverityMedium, err.Severity())
	assert.False(t, err.Timestamp().IsZero())
	assert.NotEmpty(t, err.StackTrace())
	assert.Nil(t, err.Unwrap())
}

func TestNewf(t *testing.T) {
	err := Newf("invalid token %q at %d", "#", 3)
	assert.Equal(t, `invalid token "#" at 3`, err.Error())
}

func TestWithCodeSetsSeverity(t *testing.T) {
	tests := []struct {
		code     Code
		severity Severity
	}{
		{CodeScanError, SeverityLow},
		{CodeParseError, SeverityLow},
		{CodeStorageError, SeverityHigh},
		{CodeConfigError, SeverityHigh},
		{CodeInternal, SeverityCritical},
		{CodeTerminated, SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			err := New("x").WithCode(tt.code)
			assert.Equal(t, tt.code, err.Code())
			assert.Equal(t, tt.severity, err.Severity())
		})
	}
}

func TestExplicitSeverityWins(t *testing.T) {
	err := New("x").WithSeverity(SeverityCritical).WithCode(CodeParseError)
	assert.Equal(t, SeverityCritical, err.Severity())
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))

	err := Wrap(io.ErrUnexpectedEOF, "loading source")
	require.NotNil(t, err)
	assert.Equal(t, "loading source: unexpected EOF", err.Error())
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, io.ErrUnexpectedEOF, err.RootCause())
}

func TestWrapKeepsMetadata(t *testing.T) {
	inner := New("expected 'end'").
		WithCode(CodeParseError).
		WithOperation("parse").
		WithRunID("run-1").
		WithDetail("position", 5)

	outer := Wrap(inner, "engine run")
	assert.Equal(t, CodeParseError, outer.Code())
	assert.Equal(t, SeverityLow, outer.Severity())
	assert.Equal(t, "parse", outer.Operation())
	assert.Equal(t, "run-1", outer.RunID())
	assert.Equal(t, 5, outer.Details()["position"])

	var target *Error
	require.True(t, errors.As(outer, &target))
	assert.Same(t, outer, target)
}

func TestDetailsIsACopy(t *testing.T) {
	err := New("x").WithDetails(map[string]interface{}{"a": 1, "b": "two"})
	details := err.Details()
	details["a"] = 99
	assert.Equal(t, 1, err.Details()["a"])
}

func TestHasCodeAcrossChain(t *testing.T) {
	inner := New("bad").WithCode(CodeScanError)
	outer := New("run").WithCode(CodeRetryLimit)
	outer.cause = inner
	wrapped := fmt.Errorf("cli: %w", outer)

	assert.True(t, HasCode(wrapped, CodeRetryLimit))
	assert.True(t, HasCode(wrapped, CodeScanError))
	assert.False(t, HasCode(wrapped, CodeStorageError))
	assert.False(t, HasCode(io.EOF, CodeScanError))
}

func TestGetCodeAndSeverity(t *testing.T) {
	assert.Equal(t, CodeUnknown, GetCode(io.EOF))
	assert.Equal(t, SeverityMedium, GetSeverity(io.EOF))

	err := fmt.Errorf("wrapped: %w", New("x").WithCode(CodeStorageError))
	assert.Equal(t, CodeStorageError, GetCode(err))
	assert.Equal(t, SeverityHigh, GetSeverity(err))
}

func TestString(t *testing.T) {
	err := Wrap(io.EOF, "reading").
		WithCode(CodeInvalidInput).
		WithOperation("load").
		WithRunID("abc").
		WithDetail("z", 1).
		WithDetail("a", 2)

	s := err.String()
	assert.Contains(t, s, "Error: reading")
	assert.Contains(t, s, "Code: INVALID_INPUT")
	assert.Contains(t, s, "Operation: load")
	assert.Contains(t, s, "RunID: abc")
	assert.Contains(t, s, "Details: {a=2, z=1}")
	assert.Contains(t, s, "Cause: EOF")
}

func TestMarshalJSON(t *testing.T) {
	err := Wrap(io.EOF, "reading").WithCode(CodeScanError).WithRunID("r1")

	data, jerr := json.Marshal(err)
	require.NoError(t, jerr)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "reading", decoded["message"])
	assert.Equal(t, "SCAN_ERROR", decoded["code"])
	assert.Equal(t, "low", decoded["severity"])
	assert.Equal(t, "r1", decoded["run_id"])
	assert.Equal(t, "EOF", decoded["cause"])
	assert.Contains(t, decoded, "stack_trace")
}
