package mailrouter

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version information for the mailrouter library.
// These values are injected during build time via ldflags.
// The values below are fallbacks for development builds.
var (
	// Version is the semantic version of the library.
	Version = "dev"

	// GitCommit is the git commit hash when the binary was built.
	GitCommit = "unknown"

	// BuildDate is the date when the binary was built.
	BuildDate = "unknown"
)

// VersionInfo contains detailed version information.
type VersionInfo struct {
	// Version is the semantic version of the library.
	Version string `json:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"git_commit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"build_date"`

	// GoVersion is the Go version used for building.
	GoVersion string `json:"go_version"`

	// Platform is the target platform (GOOS/GOARCH).
	Platform string `json:"platform"`
}

// GetVersionInfo returns the detailed version information, preferring module
// metadata from the build when available.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range bi.Deps {
			if dep.Path == "github.com/lattiq/mailrouter" && dep.Version != "" {
				info.Version = dep.Version
				break
			}
		}
	}

	return info
}

// String returns a human-readable version string.
func (v VersionInfo) String() string {
	return fmt.Sprintf("mailrouter %s (commit %s, built %s, %s, %s)",
		v.Version, v.GitCommit, v.BuildDate, v.GoVersion, v.Platform)
}
