package commands

import (
	"github.com/spf13/cobra"

	"github.com/incantproject/incant/cmd/incant/handlers"
)

// Dump returns the dump command.
//
// The dump command prints the effective configuration after template
// rendering, which is how template bugs are usually found.
func Dump() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the rendered configuration",
		Long: `Print the configuration as YAML, after template rendering.

Useful for inspecting what a .tmpl configuration actually expands to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Dump(configPath, verbose)
		},
	}
}
