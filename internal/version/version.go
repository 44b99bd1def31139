// Package version carries build metadata injected at link time:
//
//	go build -ldflags "-X git.home.luguber.info/inful/blogpress/internal/version.Version=v1.0.0"
package version

import "fmt"

// Version is the release version of blogpress.
var Version = "unknown"

// Build metadata set alongside Version.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats version, commit and build time for --version output.
func String() string {
	return fmt.Sprintf("blogpress %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
