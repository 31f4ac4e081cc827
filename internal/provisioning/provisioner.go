package provisioning

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/incantproject/incant/internal/config"
	"github.com/incantproject/incant/internal/platform/incus"
	"github.com/incantproject/incant/internal/ui"
)

// MountPath is the fixed in-guest path of the shared folder. Single-line
// commands run with this as their working directory.
const MountPath = "/incant"

// Provisioner applies provisioning steps to instances.
type Provisioner struct {
	client   incus.InstanceManager
	reporter ui.Reporter

	// keyDir is where local public keys are collected from for SSH setup.
	keyDir string

	// execHost runs a command on the host (known_hosts maintenance). Tests
	// replace it.
	execHost func(ctx context.Context, bin string, args ...string) error
}

// New creates a Provisioner. keyDir is the user's SSH key directory,
// typically ~/.ssh.
func New(client incus.InstanceManager, reporter ui.Reporter, keyDir string) *Provisioner {
	return &Provisioner{
		client:   client,
		reporter: reporter,
		keyDir:   keyDir,
		execHost: runHostCommand,
	}
}

// Apply runs the instance's steps in order. The first failure aborts the
// pipeline and propagates; earlier steps are not rolled back.
func (p *Provisioner) Apply(ctx context.Context, instance string, steps []config.Step) error {
	if len(steps) == 0 {
		p.reporter.Info(fmt.Sprintf("No provisioning found for %s.", instance))
		return nil
	}

	p.reporter.Success(fmt.Sprintf("Provisioning instance %s...", instance))
	for i, step := range steps {
		if err := p.applyStep(ctx, instance, step); err != nil {
			return fmt.Errorf("provisioning step %d of %s failed: %w", i+1, instance, err)
		}
	}
	return nil
}

func (p *Provisioner) applyStep(ctx context.Context, instance string, step config.Step) error {
	switch {
	case step.Copy != nil:
		return p.applyCopy(ctx, instance, step.Copy)
	case step.SSH != nil:
		return p.applySSH(ctx, instance, step.SSH)
	case step.Plugin != nil:
		return p.applyPlugin(ctx, instance, step.Plugin)
	default:
		p.reporter.Info("Running provisioning step ...")
		return p.applyRun(ctx, instance, step.Run)
	}
}

func (p *Provisioner) applyPlugin(ctx context.Context, instance string, step *config.PluginStep) error {
	plugin, ok := registry[step.Key]
	if !ok {
		// Validation rejects unknown keys; reaching this is a programming
		// error.
		return fmt.Errorf("no provisioner registered for %q", step.Key)
	}
	if err := plugin.Validate(step.Config); err != nil {
		return fmt.Errorf("plugin %q: %w", step.Key, err)
	}
	return plugin.Apply(ctx, p, instance, step.Config)
}

func runHostCommand(ctx context.Context, bin string, args ...string) error {
	// #nosec G204 -- fixed binaries (ssh, ssh-keygen), instance-name args
	cmd := exec.CommandContext(ctx, bin, args...)
	return cmd.Run()
}

// expandHome resolves a leading ~ in path against the user's home
// directory.
func expandHome(path string) string {
	if path == "~" || len(path) > 1 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
