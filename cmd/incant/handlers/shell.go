package handlers

import (
	"context"
)

// Shell handles the shell command. It returns the remote shell's exit code
// so main can propagate it to the caller.
func Shell(ctx context.Context, configPath string, verbose bool, name string) (int, error) {
	if err := checkPrerequisites().Error(); err != nil {
		return 0, err
	}

	_, orch, err := setup(configPath, verbose)
	if err != nil {
		return 0, err
	}
	return orch.Shell(ctx, name)
}
