package commands

import (
	"github.com/spf13/cobra"

	"github.com/incantproject/incant/cmd/incant/handlers"
)

// Destroy returns the destroy command.
//
// The destroy command force-deletes the configured instances. Instances
// unknown to Incus are reported and skipped.
func Destroy() *cobra.Command {
	return &cobra.Command{
		Use:   "destroy [name]",
		Short: "Destroy instances",
		Long: `Destroy the configured instances.

Instances are stopped if needed and deleted. With a name argument, only
that instance is destroyed.

Example:
  incant destroy
  incant destroy web

WARNING: This operation is irreversible. All instance data will be lost.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Destroy(cmd.Context(), configPath, verbose, optionalName(args))
		},
	}
}
