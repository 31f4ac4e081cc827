package commands

import (
	"github.com/spf13/cobra"

	"github.com/incantproject/incant/cmd/incant/handlers"
)

// Provision returns the provision command.
//
// The provision command re-runs the provisioning steps against already
// running instances, without re-creating anything.
func Provision() *cobra.Command {
	return &cobra.Command{
		Use:   "provision [name]",
		Short: "Run provisioning steps on running instances",
		Long: `Run the configured provisioning steps.

Steps run in declaration order. Most provisioning commands are not
guaranteed idempotent; re-running them may duplicate side effects.

With a name argument, only that instance is provisioned.

Example:
  incant provision
  incant provision web`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Provision(cmd.Context(), configPath, verbose, optionalName(args))
		},
	}
}
