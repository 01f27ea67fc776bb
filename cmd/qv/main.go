// Package main is the entry point for the qv CLI.
//
// It delegates all functionality to the internal/cli package. Build-time
// variables (version, commit, date) are injected via ldflags and default to
// "dev", "none" and "unknown" in development builds.
package main

import (
	"github.com/shinji-kodama/quantum-visualizer/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	cli.Execute(cli.NewRootCommand())
}
