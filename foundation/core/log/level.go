// File: level.go
// Title: Log Level Definitions
// Description: Log levels, their names and terminal colors, and parsing
//              from configuration values.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with standard log levels
// - 2026-10-14 v0.2.0: Level table, dropped fatal and audit levels

package log

import (
	"strings"
)

// Level is the importance of a log message. Higher is more important.
type Level int

const (
	LevelTrace Level = iota // every evaluated node
	LevelDebug              // every executed statement
	LevelInfo
	LevelWarn  // a statement or command failed, the process continues
	LevelError // the current operation stops
)

type levelInfo struct {
	name  string
	short string
	color string
}

var levels = [...]levelInfo{
	LevelTrace: {"trace", "TRC", "\033[37m"},
	LevelDebug: {"debug", "DBG", "\033[36m"},
	LevelInfo:  {"info", "INF", "\033[32m"},
	LevelWarn:  {"warn", "WRN", "\033[33m"},
	LevelError: {"error", "ERR", "\033[31m"},
}

var levelAliases = map[string]Level{
	"trc":         LevelTrace,
	"dbg":         LevelDebug,
	"inf":         LevelInfo,
	"information": LevelInfo,
	"wrn":         LevelWarn,
	"warning":     LevelWarn,
	"err":         LevelError,
}

func (l Level) info() (levelInfo, bool) {
	if l < LevelTrace || int(l) >= len(levels) {
		return levelInfo{name: "unknown", short: "???", color: "\033[0m"}, false
	}
	return levels[l], true
}

func (l Level) String() string {
	info, _ := l.info()
	return info.name
}

// ShortString returns the three letter tag used by the text formatter
func (l Level) ShortString() string {
	info, _ := l.info()
	return info.short
}

// Color returns the ANSI escape for console output
func (l Level) Color() string {
	info, _ := l.info()
	return info.color
}

// ShouldLog reports whether l passes a minimum level of min
func (l Level) ShouldLog(min Level) bool {
	return l >= min
}

// ParseLevel accepts level names and their short forms, case-insensitive
func ParseLevel(level string) (Level, error) {
	key := strings.ToLower(strings.TrimSpace(level))
	for l, info := range levels {
		if info.name == key {
			return Level(l), nil
		}
	}
	if l, ok := levelAliases[key]; ok {
		return l, nil
	}
	return LevelInfo, &ParseError{Input: level, Type: "level"}
}

// ParseError reports an unknown level or format name
type ParseError struct {
	Input string
	Type  string
}

func (e *ParseError) Error() string {
	return "invalid " + e.Type + ": " + e.Input
}

// DefaultLevel is the level of loggers created by New
func DefaultLevel() Level {
	return LevelInfo
}
