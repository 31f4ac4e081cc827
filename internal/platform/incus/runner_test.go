package incus

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incantproject/incant/internal/ui"
)

func TestExecRunnerCapturesOutput(t *testing.T) {
	var buf bytes.Buffer
	runner := NewExecRunner("sh", ui.NewWriterReporter(&buf, false))

	out, err := runner.Run(context.Background(), []string{"-c", "echo hello"}, RunOptions{Capture: true})

	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
	assert.Contains(t, buf.String(), "-> sh -c echo hello")
}

func TestExecRunnerQuietSuppressesEcho(t *testing.T) {
	var buf bytes.Buffer
	runner := NewExecRunner("sh", ui.NewWriterReporter(&buf, false))

	_, err := runner.Run(context.Background(), []string{"-c", "true"}, RunOptions{Capture: true, Quiet: true})

	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestExecRunnerFailureCarriesStderr(t *testing.T) {
	runner := NewExecRunner("sh", ui.NopReporter{})

	_, err := runner.Run(context.Background(), []string{"-c", "echo broken >&2; exit 1"}, RunOptions{Capture: true, Quiet: true})

	require.Error(t, err)
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Contains(t, cmdErr.Stderr, "broken")
	assert.Contains(t, cmdErr.Command, "sh -c")
}

func TestExecRunnerAllowFailure(t *testing.T) {
	var buf bytes.Buffer
	runner := NewExecRunner("sh", ui.NewWriterReporter(&buf, false))

	out, err := runner.Run(context.Background(),
		[]string{"-c", "echo partial; exit 1"},
		RunOptions{Capture: true, AllowFailure: true, Quiet: true})

	require.NoError(t, err, "allow-failure swallows the error")
	assert.Equal(t, "partial\n", out)
	assert.Contains(t, buf.String(), "failed")
}

func TestExecRunnerMissingBinary(t *testing.T) {
	runner := NewExecRunner("definitely-not-a-real-binary", ui.NopReporter{})

	_, err := runner.Run(context.Background(), []string{"info"}, RunOptions{Capture: true, Quiet: true})

	require.Error(t, err)
	assert.True(t, IsCommandError(err))
}

func TestRunInteractiveReturnsExitCode(t *testing.T) {
	runner := NewExecRunner("sh", ui.NopReporter{})

	code, err := runner.RunInteractive(context.Background(), []string{"-c", "exit 3"})

	require.NoError(t, err, "a non-zero remote exit is not an error")
	assert.Equal(t, 3, code)
}

func TestIsAgentNotRunning(t *testing.T) {
	agentErr := &CommandError{Command: "incus exec web -- true", Stderr: "Error: VM agent isn't currently running"}
	otherErr := &CommandError{Command: "incus exec web -- true", Stderr: "Error: Instance not found"}

	assert.True(t, IsAgentNotRunning(agentErr))
	assert.False(t, IsAgentNotRunning(otherErr))
	assert.False(t, IsAgentNotRunning(nil))
}
