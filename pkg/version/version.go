// Package version provides build and version information for the vecidx
// CLI, set via ldflags at release build time.
package version

import "fmt"

// Version is the current release version, overridden at build time via
// -X github.com/dawsonblock/vecindex/pkg/version.Version=<tag>.
var Version = "dev"

// Commit is the git commit hash, overridden the same way.
var Commit = "unknown"

// String returns a formatted version string.
func String() string {
	return fmt.Sprintf("vecidx %s (commit: %s)", Version, Commit)
}
