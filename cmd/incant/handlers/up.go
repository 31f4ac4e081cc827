package handlers

import (
	"context"
)

// Up handles the up command.
//
// It verifies the incus client is installed, loads the configuration, and
// brings the targeted instances up: create, wait for readiness, attach the
// shared folder, provision.
func Up(ctx context.Context, configPath string, verbose bool, name string) error {
	if err := checkPrerequisites().Error(); err != nil {
		return err
	}

	_, orch, err := setup(configPath, verbose)
	if err != nil {
		return err
	}
	return orch.Up(ctx, name)
}
