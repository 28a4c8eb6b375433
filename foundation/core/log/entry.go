// File: entry.go
// Title: Log Entry Structure
// Description: The entry passed from a logger to its formatter.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured entries
// - 2026-10-14 v0.2.0: Dropped request/user context and field helpers

package log

import (
	"sort"
	"time"
)

// Entry is one log record. Fields holds the logger's persistent fields
// merged with the call site's fields; call site values win.
type Entry struct {
	Timestamp time.Time
	Level     Level
	Message   string
	Logger    string
	Fields    Fields
	Error     error
	Duration  time.Duration
}

// Fields are key-value pairs attached to an entry
type Fields map[string]interface{}

// Keys returns the field names sorted, so formatted output is stable
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewEntry stamps a new entry with the current time
func NewEntry(level Level, message string) *Entry {
	return &Entry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Fields:    make(Fields),
	}
}
