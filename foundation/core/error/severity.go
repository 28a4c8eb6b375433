// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors so that callers and the
//              logger can pick an appropriate reaction.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-10-14 v0.2.0: Severity mapping for macro codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a problem with operator input, e.g. a typo in a program
	SeverityLow Severity = iota

	// SeverityMedium indicates a failed operation the caller can retry or skip
	SeverityMedium

	// SeverityHigh indicates a problem with the environment, e.g. storage
	SeverityHigh

	// SeverityCritical indicates corrupted state
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeDataCorruption:
		return SeverityCritical
	case CodeDatabaseError, CodeConfigError, CodeInternal:
		return SeverityHigh
	case CodeMacroSyntax, CodeInvalidInput, CodeValidationFailed, CodeValueOutOfRange, CodeInvalidConfig:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
