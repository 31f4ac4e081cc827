// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Global flags shared by every subcommand.
var (
	verbose    bool
	configPath string
)

// Root returns the root command for the incant CLI.
//
// The root command serves as the entry point and parent for all
// subcommands. It provides basic CLI metadata and organizes the command
// hierarchy.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "incant",
		Short: "Declaratively create, provision and destroy Incus instances",
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "f", "", "Path to configuration file")

	// Lifecycle commands
	cmd.AddCommand(Up())
	cmd.AddCommand(Provision())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(Shell())

	// Configuration commands
	cmd.AddCommand(List())
	cmd.AddCommand(Dump())
	cmd.AddCommand(Init())

	// Utility commands
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}

// optionalName extracts the optional instance-name argument.
func optionalName(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
