package provisioning

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/incantproject/incant/internal/platform/incus"
)

// applyRun executes a command or script step. Single-line text runs as a
// shell command in the shared folder; multi-line text is pushed as a
// temporary script, executed, and removed again on every exit path.
func (p *Provisioner) applyRun(ctx context.Context, instance, text string) error {
	if !strings.Contains(text, "\n") {
		_, err := p.client.Exec(ctx, instance, []string{"sh", "-c", text}, incus.ExecOptions{
			Cwd:   MountPath,
			Quiet: true,
		})
		return err
	}
	return p.runScript(ctx, instance, text)
}

func (p *Provisioner) runScript(ctx context.Context, instance, script string) error {
	local, err := os.CreateTemp("", "incant_")
	if err != nil {
		return fmt.Errorf("failed to create temporary script: %w", err)
	}
	defer func() { _ = os.Remove(local.Name()) }()

	if _, err := local.WriteString(script); err != nil {
		_ = local.Close()
		return fmt.Errorf("failed to write temporary script: %w", err)
	}
	if err := local.Close(); err != nil {
		return fmt.Errorf("failed to write temporary script: %w", err)
	}

	remote := fmt.Sprintf("/tmp/incant-%s.sh", uuid.NewString())
	if err := p.client.PushFile(ctx, instance, local.Name(), remote, incus.PushOptions{Quiet: true}); err != nil {
		return err
	}
	// Remove the pushed script even when execution fails.
	defer func() {
		_, _ = p.client.Exec(ctx, instance, []string{"rm", "-f", remote}, incus.ExecOptions{
			Quiet:        true,
			AllowFailure: true,
		})
	}()

	_, err = p.client.Exec(ctx, instance, []string{"sh", "-c", fmt.Sprintf("chmod +x %s && %s", remote, remote)},
		incus.ExecOptions{Quiet: true})
	return err
}
