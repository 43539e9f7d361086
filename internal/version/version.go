// Package version holds build information, overridden at link time:
//
//	go build -ldflags "-X screen-slicer/internal/version.Version=1.2.0 \
//	    -X screen-slicer/internal/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import "fmt"

var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String is the one-line version shown by the CLI and the About dialog.
func String() string {
	s := "v" + Version
	if GitCommit != "unknown" {
		s += fmt.Sprintf(" (%s", GitCommit)
		if BuildTime != "unknown" {
			s += ", " + BuildTime
		}
		s += ")"
	}
	return s
}
