package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/incantproject/incant/cmd/incant/handlers"
)

// Shell returns the shell command.
//
// The shell command opens an interactive shell inside an instance. The
// process exits with whatever code the remote shell produced; a non-zero
// shell exit is a normal outcome, not an error.
func Shell() *cobra.Command {
	return &cobra.Command{
		Use:   "shell [name]",
		Short: "Open an interactive shell in an instance",
		Long: `Open an interactive shell inside an instance.

With no name, the instance is auto-selected when the configuration
declares exactly one; otherwise a name is required.

Example:
  incant shell
  incant shell web`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := handlers.Shell(cmd.Context(), configPath, verbose, optionalName(args))
			if err != nil {
				return err
			}
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
}
