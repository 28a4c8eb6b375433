// File: codes.go
// Title: Error Code Definitions
// Description: Defines standardized error codes for classifying failures of
//              the macro toolchain: syntax, evaluation, register addressing,
//              configuration and storage.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-14 v0.2.0: Macro language codes, dropped service/auth codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// Macro language
	CodeMacroSyntax        Code = "MACRO_SYNTAX"
	CodeMacroEvaluation    Code = "MACRO_EVALUATION"
	CodeRegisterOutOfRange Code = "REGISTER_OUT_OF_RANGE"
	CodeUnsetVariable      Code = "UNSET_VARIABLE"

	// Storage
	CodeDatabaseError  Code = "DATABASE_ERROR"
	CodeDataCorruption Code = "DATA_CORRUPTION"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Validation
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeValueOutOfRange  Code = "VALUE_OUT_OF_RANGE"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput,
		CodeMacroSyntax, CodeMacroEvaluation, CodeRegisterOutOfRange, CodeUnsetVariable,
		CodeDatabaseError, CodeDataCorruption,
		CodeConfigError, CodeInvalidConfig,
		CodeValidationFailed, CodeValueOutOfRange:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeMacroSyntax, CodeMacroEvaluation, CodeRegisterOutOfRange, CodeUnsetVariable:
		return "macro"
	case CodeDatabaseError, CodeDataCorruption:
		return "storage"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	case CodeValidationFailed, CodeValueOutOfRange:
		return "validation"
	default:
		return "generic"
	}
}

// ExitCode maps a code to a process exit status for command line tools.
func (c Code) ExitCode() int {
	switch c.Category() {
	case "macro":
		return 2
	case "configuration", "validation":
		return 3
	case "storage":
		return 4
	default:
		return 1
	}
}
