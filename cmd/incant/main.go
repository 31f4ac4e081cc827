// Package main is the entry point for the incant CLI.
//
// incant is a command-line frontend for Incus that creates, provisions,
// and destroys instances declaratively from a YAML configuration file,
// sharing the working directory into each instance.
//
// Commands: up, provision, destroy, shell, list, dump, init.
//
// For detailed usage information, run:
//
//	incant --help
package main

import (
	"fmt"
	"os"

	"github.com/incantproject/incant/cmd/incant/commands"
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
