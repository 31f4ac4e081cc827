package orchestration

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/incantproject/incant/internal/config"
	"github.com/incantproject/incant/internal/platform/incus"
	"github.com/incantproject/incant/internal/provisioning"
	"github.com/incantproject/incant/internal/ui"
)

// StepApplier runs an instance's provisioning pipeline.
// *provisioning.Provisioner is the production implementation.
type StepApplier interface {
	Apply(ctx context.Context, instance string, steps []config.Step) error
}

// Orchestrator sequences lifecycle operations over the configured
// instances. Operations are sequential per instance; an operation's failure
// terminates the whole command.
type Orchestrator struct {
	client      incus.InstanceManager
	reporter    ui.Reporter
	prober      *Prober
	shared      *SharedFolder
	provisioner StepApplier
	instances   []config.InstanceConfig

	// runHost executes a pre-launch command on the host. Tests replace it.
	runHost func(ctx context.Context, command string) error
}

// New creates an Orchestrator over the given instance set.
func New(
	client incus.InstanceManager,
	reporter ui.Reporter,
	prober *Prober,
	shared *SharedFolder,
	provisioner StepApplier,
	instances []config.InstanceConfig,
) *Orchestrator {
	return &Orchestrator{
		client:      client,
		reporter:    reporter,
		prober:      prober,
		shared:      shared,
		provisioner: provisioner,
		instances:   instances,
		runHost:     runHostShell,
	}
}

// targets resolves name to the instance set an operation applies to: the
// single named instance, or all instances when name is empty. A name absent
// from the configuration fails before any external command runs.
func (o *Orchestrator) targets(name string) ([]config.InstanceConfig, error) {
	if name == "" {
		return o.instances, nil
	}
	for _, inst := range o.instances {
		if inst.Name == name {
			return []config.InstanceConfig{inst}, nil
		}
	}
	return nil, &incus.InstanceError{Name: name, Message: "not found in config"}
}

// Up creates the targeted instances and brings each to its configured
// state. Creation happens in a first pass over all targets so instances
// boot concurrently inside the external tool; the second pass then waits,
// attaches shared folders, and provisions one instance at a time.
func (o *Orchestrator) Up(ctx context.Context, name string) error {
	targets, err := o.targets(name)
	if err != nil {
		return err
	}

	for _, inst := range targets {
		if err := o.preLaunch(ctx, inst); err != nil {
			return err
		}
		o.reporter.Success(fmt.Sprintf("Creating instance %s with image %s...", inst.Name, inst.Image))
		if err := o.client.CreateInstance(ctx, inst); err != nil {
			return err
		}
	}

	for _, inst := range targets {
		if err := o.bringUp(ctx, inst); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) bringUp(ctx context.Context, inst config.InstanceConfig) error {
	if err := o.prober.WaitAgent(ctx, inst.Name); err != nil {
		return err
	}

	// VMs need to be fully running before a disk device can be attached.
	if inst.Wait || len(inst.Provision) > 0 || inst.VM {
		o.reporter.Info(fmt.Sprintf("Waiting for %s to become ready...", inst.Name))
		if err := o.prober.WaitReady(ctx, inst.Name); err != nil {
			return err
		}
		o.reporter.Success(fmt.Sprintf("Instance %s is ready.", inst.Name))
	}

	if inst.SharedFolder {
		o.reporter.Success(fmt.Sprintf("Sharing current directory to %s:%s ...", inst.Name, provisioning.MountPath))
		if err := o.shared.Establish(ctx, inst.Name); err != nil {
			return err
		}
	}

	if len(inst.Provision) > 0 {
		return o.provisioner.Apply(ctx, inst.Name, inst.Provision)
	}
	return nil
}

// preLaunch runs the instance's pre-launch commands on the host.
func (o *Orchestrator) preLaunch(ctx context.Context, inst config.InstanceConfig) error {
	for _, command := range inst.PreLaunch {
		o.reporter.Echo(command)
		if err := o.runHost(ctx, command); err != nil {
			return fmt.Errorf("pre-launch command for %s failed: %w", inst.Name, err)
		}
	}
	return nil
}

// Provision runs each targeted instance's provisioning pipeline. The
// pipelines are independent; a failure in one aborts the command but does
// not roll back siblings already provisioned.
func (o *Orchestrator) Provision(ctx context.Context, name string) error {
	targets, err := o.targets(name)
	if err != nil {
		return err
	}
	for _, inst := range targets {
		if err := o.provisioner.Apply(ctx, inst.Name, inst.Provision); err != nil {
			return err
		}
	}
	return nil
}

// Destroy force-deletes the targeted instances. Instances the external tool
// does not know about are reported and skipped without issuing a delete.
func (o *Orchestrator) Destroy(ctx context.Context, name string) error {
	targets, err := o.targets(name)
	if err != nil {
		return err
	}
	for _, inst := range targets {
		exists, err := o.client.IsInstance(ctx, inst.Name)
		if err != nil {
			return err
		}
		if !exists {
			o.reporter.Info(fmt.Sprintf("Instance '%s' does not exist.", inst.Name))
			continue
		}
		o.reporter.Success(fmt.Sprintf("Destroying instance %s ...", inst.Name))
		if err := o.client.DestroyInstance(ctx, inst.Name); err != nil {
			return err
		}
	}
	return nil
}

// Shell opens an interactive shell in the named instance and returns the
// shell's exit code. With no name, the single configured instance is
// auto-selected; several configured instances make the target ambiguous.
func (o *Orchestrator) Shell(ctx context.Context, name string) (int, error) {
	if name == "" {
		if len(o.instances) != 1 {
			return 0, &incus.InstanceError{Message: "multiple instances found, please specify an instance name"}
		}
		name = o.instances[0].Name
	}
	if _, err := o.targets(name); err != nil {
		return 0, err
	}
	return o.client.Shell(ctx, name)
}

// List returns the configured instance names in declaration order.
func (o *Orchestrator) List() []string {
	names := make([]string, 0, len(o.instances))
	for _, inst := range o.instances {
		names = append(names, inst.Name)
	}
	return names
}

func runHostShell(ctx context.Context, command string) error {
	// #nosec G204 -- the command comes from the user's own config file
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
