// Package main is the entry point for the rackfish CLI.
//
// rackfish reconfigures server firmware boot order over a management
// controller's Redfish API and drives the controller's configuration job
// queue to completion, power-cycling the target so changes take effect.
//
// For detailed usage information, run:
//
//	rackfish --help
package main

import (
	"fmt"
	"os"

	"github.com/rackfish/rackfish/cmd/rackfish/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
