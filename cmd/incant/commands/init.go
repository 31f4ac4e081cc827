package commands

import (
	"github.com/spf13/cobra"

	"github.com/incantproject/incant/cmd/incant/handlers"
)

// Init returns the command for creating a starter configuration.
//
// By default an interactive wizard asks for the instance basics; with
// --defaults a commented example configuration is written instead.
func Init() *cobra.Command {
	var useDefaults bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter configuration file",
		Long: `Create an incant.yaml in the current directory.

The interactive wizard asks for:

  - Instance name
  - Image to launch from
  - Container or virtual machine
  - Whether to set up SSH access

Use --defaults to skip the wizard and write a commented example
configuration instead. Existing files are never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), verbose, useDefaults)
		},
	}

	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "Write an example configuration without prompting")

	return cmd
}
