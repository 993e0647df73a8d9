// Package version identifies the openenc build.
package version

import (
	"crypto/sha256"
	"fmt"
	"runtime/debug"
	"sync"
)

// Version is the release of openenc.
const Version = "0.1.0"

// GitCommit and BuildDate are stamped by release builds:
//
//	go build -ldflags "-X github.com/standardbeagle/openenc/internal/version.GitCommit=$(git rev-parse --short HEAD) -X github.com/standardbeagle/openenc/internal/version.BuildDate=$(date -u +%Y-%m-%d)"
var (
	GitCommit = "unknown"
	BuildDate = "development"
)

// Info returns the bare version.
func Info() string {
	return Version
}

// FullInfo returns version, commit and build date on one line.
func FullInfo() string {
	return fmt.Sprintf("openenc %s (commit: %s, built: %s)", Version, commit(), BuildDate)
}

// commit prefers the stamped commit and falls back to the VCS revision the
// go command records for builds inside a checkout.
func commit() string {
	if GitCommit != "unknown" {
		return GitCommit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return GitCommit
}

var (
	buildID     string
	buildIDOnce sync.Once
)

// BuildID fingerprints the running binary so the MCP info tool can tell two
// installs apart.
func BuildID() string {
	buildIDOnce.Do(func() {
		buildID = computeBuildID()
	})
	return buildID
}

func computeBuildID() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00", Version, GitCommit)
	if info, ok := debug.ReadBuildInfo(); ok {
		fmt.Fprintf(h, "%s\x00%s\x00%s\x00", info.GoVersion, info.Main.Path, info.Main.Version)
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision", "vcs.modified", "vcs.time":
				fmt.Fprintf(h, "%s=%s\x00", s.Key, s.Value)
			}
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}
