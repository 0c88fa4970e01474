// Package version holds build metadata, overridden with -ldflags at build time.
package version

import "fmt"

var (
	Version = "0.1.0"
	Commit  = "dev"
)

// String returns the version and commit for display.
func String() string {
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
