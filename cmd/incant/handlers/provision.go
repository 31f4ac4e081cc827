package handlers

import (
	"context"
)

// Provision handles the provision command.
func Provision(ctx context.Context, configPath string, verbose bool, name string) error {
	if err := checkPrerequisites().Error(); err != nil {
		return err
	}

	_, orch, err := setup(configPath, verbose)
	if err != nil {
		return err
	}
	return orch.Provision(ctx, name)
}
