// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used to classify failures of the
//              scanner, parser, engine, configuration and history store.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-19 v0.2.0: TINY scan/parse codes replace the service codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// Language processing
	CodeScanError  Code = "SCAN_ERROR"
	CodeParseError Code = "PARSE_ERROR"

	// Driving loop
	CodeTerminated Code = "TERMINATED"
	CodeRetryLimit Code = "RETRY_LIMIT"
	CodeCanceled   Code = "CANCELED"

	// Configuration and storage
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"
	CodeStorageError  Code = "STORAGE_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput,
		CodeScanError, CodeParseError,
		CodeTerminated, CodeRetryLimit, CodeCanceled,
		CodeConfigError, CodeInvalidConfig, CodeStorageError:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeScanError, CodeParseError:
		return "syntax"
	case CodeTerminated, CodeRetryLimit, CodeCanceled:
		return "engine"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	case CodeStorageError:
		return "storage"
	default:
		return "generic"
	}
}

// ExitCode returns the process exit status the CLI uses for this code
func (c Code) ExitCode() int {
	switch c {
	case CodeScanError, CodeParseError:
		return 2
	case CodeTerminated:
		return 3
	case CodeRetryLimit, CodeCanceled:
		return 4
	case CodeConfigError, CodeInvalidConfig:
		return 5
	default:
		return 1
	}
}
