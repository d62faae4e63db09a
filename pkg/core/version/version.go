// ============================================================================
// TINY - Scanner/Parser Workbench
// ============================================================================
//
// Package:     version
// Description: Central version information, set at build time via -ldflags
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Build information, overridden with
// -ldflags "-X github.com/msto63/tiny/pkg/core/version.Version=1.2.3"
var (
	Version   = "0.1.0"
	GitCommit = "development"
	BuildDate = "unknown"
)

// Info is a snapshot of the build information
type Info struct {
	Version   string
	GitCommit string
	BuildDate string
	GoVersion string
	Platform  string
}

// Get returns the build information of the running binary
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Short returns "v<version>"
func (i Info) Short() string {
	return "v" + i.Version
}

// String returns the multi-line form printed by "tiny version"
func (i Info) String() string {
	return fmt.Sprintf("tiny %s\n  Git Commit: %s\n  Build Date: %s\n  Go Version: %s\n  OS/Arch:    %s\n",
		i.Short(), i.GitCommit, i.BuildDate, i.GoVersion, i.Platform)
}
