package commands

import (
	"github.com/spf13/cobra"

	"github.com/incantproject/incant/cmd/incant/handlers"
)

// List returns the list command.
func List() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured instances",
		Long: `List the instance names declared in the configuration file,
in declaration order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.List(configPath, verbose)
		},
	}
}
