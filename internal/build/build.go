// Package build holds build-time information.
package build

// Version is the application version.
// Version, Commit and Date default to placeholders and are set by linker flags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
