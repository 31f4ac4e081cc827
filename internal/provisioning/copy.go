package provisioning

import (
	"context"
	"fmt"

	"github.com/incantproject/incant/internal/config"
	"github.com/incantproject/incant/internal/platform/incus"
)

// applyCopy pushes a local path into the instance. Copy steps never execute
// anything in the guest.
func (p *Provisioner) applyCopy(ctx context.Context, instance string, step *config.CopyStep) error {
	p.reporter.Success(fmt.Sprintf("Copying %s to %s:%s...", step.Source, instance, step.Target))
	return p.client.PushFile(ctx, instance, step.Source, step.Target, incus.PushOptions{
		UID:        step.UID,
		GID:        step.GID,
		Mode:       step.Mode,
		Recursive:  step.Recursive,
		CreateDirs: step.CreateDirs,
	})
}
