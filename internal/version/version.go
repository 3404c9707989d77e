// Package version exposes build metadata set at link time.
package version

import "fmt"

var (
	// Version is the release tag, overridden via -ldflags.
	Version = "dev"
	// Commit is the git revision the binary was built from.
	Commit = "unknown"
)

// GetInfo returns a human-readable version string.
func GetInfo() string {
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
