package commands

import (
	"github.com/spf13/cobra"

	"github.com/incantproject/incant/cmd/incant/handlers"
)

// Up returns the up command.
//
// The up command creates the configured instances, waits for each to
// become ready, attaches the shared folder, and runs provisioning.
func Up() *cobra.Command {
	return &cobra.Command{
		Use:   "up [name]",
		Short: "Create and provision instances",
		Long: `Create the configured instances and bring them up.

All targeted instances are created first so they can boot in parallel.
Each instance is then waited for, gets the current directory shared to
/incant (unless disabled), and has its provisioning steps applied.

With a name argument, only that instance is brought up.

Example:
  incant up
  incant up web`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Up(cmd.Context(), configPath, verbose, optionalName(args))
		},
	}
}
