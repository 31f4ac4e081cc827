package orchestration

import (
	"context"
	"fmt"
	"strings"

	"github.com/incantproject/incant/internal/config"
	"github.com/incantproject/incant/internal/platform/incus"
	"github.com/incantproject/incant/internal/ui"
	"github.com/incantproject/incant/internal/util/retry"
)

// Prober checks and waits for instance readiness. Readiness is a three-stage
// ladder: the guest agent is running, the agent answers command execution,
// and (for full readiness) the init system reports the instance as booted.
type Prober struct {
	client   incus.InstanceManager
	reporter ui.Reporter
	timeouts *config.Timeouts
}

// NewProber creates a Prober using the given polling configuration.
func NewProber(client incus.InstanceManager, reporter ui.Reporter, timeouts *config.Timeouts) *Prober {
	return &Prober{
		client:   client,
		reporter: reporter,
		timeouts: timeouts,
	}
}

// agentRunning reports whether the guest agent has a positive process count.
func (p *Prober) agentRunning(ctx context.Context, name string) (bool, error) {
	state, err := p.client.State(ctx, name)
	if err != nil {
		return false, err
	}
	return state.Processes > 0, nil
}

// agentUsable reports whether the agent answers command execution. The
// tool's "agent isn't currently running" error means "not yet"; anything
// else is a real failure.
func (p *Prober) agentUsable(ctx context.Context, name string) (bool, error) {
	// Captured so the tool's stderr sentinel is inspectable.
	_, err := p.client.Exec(ctx, name, []string{"true"}, incus.ExecOptions{Capture: true, Quiet: true})
	if err == nil {
		return true, nil
	}
	if incus.IsAgentNotRunning(err) {
		return false, nil
	}
	return false, err
}

// systemBooted reports whether the init system considers boot complete.
// Target images are assumed to run systemd; its absence is fatal rather
// than a "not yet".
func (p *Prober) systemBooted(ctx context.Context, name string) (bool, error) {
	if _, err := p.client.Exec(ctx, name, []string{"which", "systemctl"}, incus.ExecOptions{Capture: true, Quiet: true}); err != nil {
		return false, retry.Fatal(fmt.Errorf("systemctl not found in instance %s: %w", name, err))
	}
	out, err := p.client.Exec(ctx, name, []string{"systemctl", "is-system-running"}, incus.ExecOptions{
		Capture:      true,
		Quiet:        true,
		AllowFailure: true,
	})
	if err != nil {
		return false, err
	}
	status := strings.TrimSpace(out)
	return status == "running" || status == "degraded", nil
}

// IsReady evaluates the readiness ladder once. Each stage short-circuits:
// the booted check only runs when full is requested and the agent stages
// already hold.
func (p *Prober) IsReady(ctx context.Context, name string, full bool) (bool, error) {
	running, err := p.agentRunning(ctx, name)
	if err != nil || !running {
		return false, err
	}
	if p.reporter.Verbose() {
		p.reporter.Info("Agent is running, testing if usable...")
	}

	usable, err := p.agentUsable(ctx, name)
	if err != nil || !usable {
		return false, err
	}
	if !full {
		return true, nil
	}
	if p.reporter.Verbose() {
		p.reporter.Info("Agent is usable, checking if system booted...")
	}

	return p.systemBooted(ctx, name)
}

// WaitAgent blocks until the agent is running and usable. The wait is
// unbounded unless a ready timeout is configured.
func (p *Prober) WaitAgent(ctx context.Context, name string) error {
	return retry.Poll(ctx, func() (bool, error) {
		running, err := p.agentRunning(ctx, name)
		if err != nil || !running {
			return false, err
		}
		return p.agentUsable(ctx, name)
	}, retry.WithInterval(p.timeouts.AgentInterval), retry.WithTimeout(p.timeouts.ReadyTimeout))
}

// WaitReady blocks until the instance is fully booted. The wait is
// unbounded unless a boot timeout is configured.
func (p *Prober) WaitReady(ctx context.Context, name string) error {
	return retry.Poll(ctx, func() (bool, error) {
		return p.IsReady(ctx, name, true)
	}, retry.WithInterval(p.timeouts.BootInterval), retry.WithTimeout(p.timeouts.BootTimeout))
}
