// ============================================================================
// fanucmacro - Fanuc-style macro interpreter
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating foundation loggers
// Author:      msto63
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	mdwlog "github.com/msto63/fanucmacro/foundation/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Component name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format (text, json, console, logfmt; default: text)
	Format string

	// Verbose forces debug level
	Verbose bool

	// Output writer (default: stderr)
	Output io.Writer

	// Additional outputs
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "text",
	}
}

// NewLogger creates a new foundation logger. Unknown levels and formats
// fall back to info and text.
func NewLogger(cfg LoggerConfig) *mdwlog.Logger {
	level, err := mdwlog.ParseLevel(cfg.Level)
	if err != nil {
		level = mdwlog.LevelInfo
	}
	if cfg.Verbose && level > mdwlog.LevelDebug {
		level = mdwlog.LevelDebug
	}

	format, err := mdwlog.ParseFormat(cfg.Format)
	if err != nil {
		format = mdwlog.FormatText
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	return mdwlog.NewWithConfig(mdwlog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	})
}

// NewSimpleLogger creates a logger with the default configuration
func NewSimpleLogger(serviceName string) *mdwlog.Logger {
	return NewLogger(DefaultLoggerConfig(serviceName))
}
