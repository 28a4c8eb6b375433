// ============================================================================
// fanucmacro - Fanuc-style macro interpreter
// ============================================================================
//
// Package:     version
// Description: Central version management for the macro tooling
// Author:      msto63
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Platform version of the command-line tool
	Platform = "1.0.0"

	// Language version of the accepted macro dialect
	Language = "1.0.0"

	// SnapshotSchema is the version of the snapshot database layout
	SnapshotSchema = 1
)

// Set at build time via -ldflags "-X .../version.Commit=..."
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info describes the running build
type Info struct {
	Version        string `json:"version" yaml:"version"`
	Language       string `json:"language" yaml:"language"`
	SnapshotSchema int    `json:"snapshot_schema" yaml:"snapshot_schema"`
	Commit         string `json:"commit" yaml:"commit"`
	BuildDate      string `json:"build_date" yaml:"build_date"`
	GoVersion      string `json:"go_version" yaml:"go_version"`
	Platform       string `json:"platform" yaml:"platform"`
}

// Get returns the build information
func Get() Info {
	return Info{
		Version:        Platform,
		Language:       Language,
		SnapshotSchema: SnapshotSchema,
		Commit:         Commit,
		BuildDate:      BuildDate,
		GoVersion:      runtime.Version(),
		Platform:       runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns a one-line summary
func (i Info) String() string {
	return fmt.Sprintf("macro %s (language %s, commit %s, built %s, %s %s)",
		i.Version, i.Language, i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}
