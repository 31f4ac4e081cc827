package handlers

import (
	"context"
)

// Destroy handles the destroy command.
//
// Instances Incus does not know about are reported and skipped; everything
// else is force-deleted.
func Destroy(ctx context.Context, configPath string, verbose bool, name string) error {
	if err := checkPrerequisites().Error(); err != nil {
		return err
	}

	_, orch, err := setup(configPath, verbose)
	if err != nil {
		return err
	}
	return orch.Destroy(ctx, name)
}
