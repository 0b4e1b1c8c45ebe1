// Package version exposes build-time version information.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// These variables are set at build time using -ldflags.
var (
	// Version is the semantic version of the application.
	Version = "dev"

	// GitCommit is the git commit hash when the binary was built.
	GitCommit = "unknown"

	// BuildTime is the time when the binary was built (RFC3339 format).
	BuildTime = "unknown"
)

// BuildInfo contains version and build information.
type BuildInfo struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit"`
	BuildTime time.Time `json:"build_time"`
	GoVersion string    `json:"go_version"`
	Platform  string    `json:"platform"`
}

// GetBuildInfo returns the complete build information.
func GetBuildInfo() *BuildInfo {
	return &BuildInfo{
		Version:   GetVersion(),
		GitCommit: GetGitCommit(),
		BuildTime: parseBuildTime(BuildTime),
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// GetVersion returns the application version, falling back to module build
// info when no version was injected at link time.
func GetVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			return info.Main.Version
		}
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
				return fmt.Sprintf("dev-%s", setting.Value[:7])
			}
		}
	}

	return "dev"
}

// GetGitCommit returns the git commit hash the binary was built from.
func GetGitCommit() string {
	if GitCommit != "" && GitCommit != "unknown" {
		return GitCommit
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}

	return "unknown"
}

// GetShortVersion returns a short version string suitable for display.
func GetShortVersion() string {
	version := GetVersion()
	commit := GetGitCommit()

	if commit != "unknown" && len(commit) >= 7 {
		if version != "dev" {
			return fmt.Sprintf("%s (%s)", version, commit[:7])
		}
		return fmt.Sprintf("dev-%s", commit[:7])
	}

	return version
}

func parseBuildTime(value string) time.Time {
	if value == "" || value == "unknown" {
		return time.Time{}
	}
	for _, format := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(format, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
