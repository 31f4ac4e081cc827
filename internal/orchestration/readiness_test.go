package orchestration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incantproject/incant/internal/config"
	"github.com/incantproject/incant/internal/platform/incus"
	"github.com/incantproject/incant/internal/ui"
	"github.com/incantproject/incant/internal/util/retry"
)

func newTestProber(client *incus.MockClient) *Prober {
	return NewProber(client, ui.NopReporter{}, fastTimeouts())
}

func TestIsReadyAgentNotRunning(t *testing.T) {
	client := &incus.MockClient{}
	client.StateFunc = func(context.Context, string) (*incus.StateInfo, error) {
		return &incus.StateInfo{Status: "Running", Processes: 0}, nil
	}
	p := newTestProber(client)

	ready, err := p.IsReady(context.Background(), "web", true)

	require.NoError(t, err)
	assert.False(t, ready)
	assert.Zero(t, client.CallsTo("Exec"), "later stages are skipped once one fails")
}

func TestIsReadyAgentNotUsableYet(t *testing.T) {
	client := &incus.MockClient{}
	client.ExecFunc = func(_ context.Context, _ string, command []string, _ incus.ExecOptions) (string, error) {
		return "", &incus.CommandError{
			Command: "incus exec web -- true",
			Stderr:  "Error: VM agent isn't currently running",
		}
	}
	p := newTestProber(client)

	ready, err := p.IsReady(context.Background(), "web", true)

	require.NoError(t, err, "the agent-not-running rejection means not yet, not failure")
	assert.False(t, ready)
}

func TestIsReadyExecFailurePropagates(t *testing.T) {
	client := &incus.MockClient{}
	client.ExecFunc = func(context.Context, string, []string, incus.ExecOptions) (string, error) {
		return "", errors.New("connection refused")
	}
	p := newTestProber(client)

	_, err := p.IsReady(context.Background(), "web", false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIsReadyShortModeNeverProbesBoot(t *testing.T) {
	client := &incus.MockClient{}
	p := newTestProber(client)

	ready, err := p.IsReady(context.Background(), "web", false)

	require.NoError(t, err)
	assert.True(t, ready)
	assert.Zero(t, client.CallsTo("Exec web which"))
	assert.Zero(t, client.CallsTo("Exec web systemctl"))
}

func TestIsReadyFullRequiresBootedSystem(t *testing.T) {
	states := map[string]bool{
		"running":     true,
		"degraded":    true,
		"starting":    false,
		"maintenance": false,
	}
	for state, want := range states {
		client := &incus.MockClient{}
		client.ExecFunc = func(_ context.Context, _ string, command []string, _ incus.ExecOptions) (string, error) {
			if command[0] == "systemctl" {
				return state + "\n", nil
			}
			return "", nil
		}
		p := newTestProber(client)

		ready, err := p.IsReady(context.Background(), "web", true)

		require.NoError(t, err)
		assert.Equal(t, want, ready, "state %q", state)
	}
}

func TestIsReadyMissingInitSystemIsFatal(t *testing.T) {
	client := &incus.MockClient{}
	client.ExecFunc = func(_ context.Context, _ string, command []string, _ incus.ExecOptions) (string, error) {
		if command[0] == "which" {
			return "", errors.New("exit status 1")
		}
		return "", nil
	}
	p := newTestProber(client)

	_, err := p.IsReady(context.Background(), "web", true)

	require.Error(t, err)
	assert.True(t, retry.IsFatal(err))
	assert.Contains(t, err.Error(), "systemctl not found")
}

func TestWaitAgentPollsUntilUsable(t *testing.T) {
	client := &incus.MockClient{}
	execs := 0
	client.ExecFunc = func(context.Context, string, []string, incus.ExecOptions) (string, error) {
		execs++
		if execs < 3 {
			return "", &incus.CommandError{Stderr: "Error: VM agent isn't currently running"}
		}
		return "", nil
	}
	p := newTestProber(client)

	require.NoError(t, p.WaitAgent(context.Background(), "web"))
	assert.Equal(t, 3, execs)
}

func TestWaitAgentHonorsTimeout(t *testing.T) {
	client := &incus.MockClient{}
	client.StateFunc = func(context.Context, string) (*incus.StateInfo, error) {
		return &incus.StateInfo{Status: "Running", Processes: 0}, nil
	}
	p := NewProber(client, ui.NopReporter{}, &config.Timeouts{
		AgentInterval: time.Millisecond,
		ReadyTimeout:  10 * time.Millisecond,
	})

	err := p.WaitAgent(context.Background(), "web")

	require.Error(t, err)
	assert.True(t, errors.Is(err, retry.ErrTimeout))
}

// stubIncus writes a fake CLI script and returns a client issuing real
// subprocess calls against it.
func stubIncus(t *testing.T, script string) *incus.CLIClient {
	t.Helper()
	binary := filepath.Join(t.TempDir(), "incus")
	require.NoError(t, os.WriteFile(binary, []byte(script), 0o755))
	return incus.NewCLIClient(incus.NewExecRunner(binary, ui.NopReporter{}), ui.NopReporter{})
}

func TestIsReadyCapturesGuestOutput(t *testing.T) {
	client := stubIncus(t, `#!/bin/sh
case "$1" in
project) echo default ;;
query) echo '{"status":"Running","state":{"processes":4}}' ;;
exec)
	shift 3
	if [ "$1" = systemctl ]; then echo running; fi
	;;
esac
`)
	p := NewProber(client, ui.NopReporter{}, fastTimeouts())

	ready, err := p.IsReady(context.Background(), "web", true)

	require.NoError(t, err)
	assert.True(t, ready, "the guest's init state must be read from the subprocess")
}

func TestAgentNotRunningStderrOverRealRunner(t *testing.T) {
	client := stubIncus(t, `#!/bin/sh
case "$1" in
project) echo default ;;
query) echo '{"status":"Running","state":{"processes":4}}' ;;
exec)
	echo "Error: VM agent isn't currently running" >&2
	exit 1
	;;
esac
`)
	p := NewProber(client, ui.NopReporter{}, fastTimeouts())

	ready, err := p.IsReady(context.Background(), "web", true)

	require.NoError(t, err, "the agent rejection on stderr means not yet, not failure")
	assert.False(t, ready)
}

func TestWaitReadyStopsOnFatalProbe(t *testing.T) {
	client := &incus.MockClient{}
	client.ExecFunc = func(_ context.Context, _ string, command []string, _ incus.ExecOptions) (string, error) {
		if command[0] == "which" {
			return "", errors.New("exit status 1")
		}
		return "", nil
	}
	p := newTestProber(client)

	err := p.WaitReady(context.Background(), "web")

	require.Error(t, err)
	assert.True(t, retry.IsFatal(err), "a missing init system must not be retried")
}
