package incus

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/incantproject/incant/internal/ui"
)

// RunOptions controls how a command invocation behaves.
type RunOptions struct {
	// Capture collects stdout and stderr instead of inheriting the parent's
	// streams. Scripts that need live output and the interactive shell run
	// uncaptured.
	Capture bool

	// AllowFailure reports a non-zero exit through the Reporter and returns
	// best-effort captured output instead of an error. Only callers with
	// their own retry or fallback logic use this.
	AllowFailure bool

	// Quiet suppresses echoing the command line before running it.
	Quiet bool
}

// Runner executes invocations of the external tool.
type Runner interface {
	// Run executes the tool with the given arguments and returns captured
	// stdout.
	Run(ctx context.Context, args []string, opts RunOptions) (string, error)

	// RunInteractive executes the tool with the parent's terminal attached
	// and returns the child's exit code. A non-zero exit is not an error.
	RunInteractive(ctx context.Context, args []string) (int, error)
}

// ExecRunner runs the real binary via os/exec.
type ExecRunner struct {
	binary   string
	reporter ui.Reporter
}

// NewExecRunner creates a runner for the given binary name or path.
func NewExecRunner(binary string, reporter ui.Reporter) *ExecRunner {
	return &ExecRunner{binary: binary, reporter: reporter}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, args []string, opts RunOptions) (string, error) {
	cmdLine := r.binary + " " + strings.Join(args, " ")
	if !opts.Quiet {
		r.reporter.Echo(cmdLine)
	}

	// #nosec G204 -- args are built from the user's own configuration
	cmd := exec.CommandContext(ctx, r.binary, args...)

	var stdout, stderr bytes.Buffer
	if opts.Capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	cmdErr := &CommandError{Command: cmdLine, Stderr: stderr.String(), Err: err}
	if opts.AllowFailure {
		r.reporter.Error(cmdErr.Error())
		return stdout.String(), nil
	}
	return "", cmdErr
}

// RunInteractive implements Runner.
func (r *ExecRunner) RunInteractive(ctx context.Context, args []string) (int, error) {
	// #nosec G204 -- args are built from the user's own configuration
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, &CommandError{Command: r.binary + " " + strings.Join(args, " "), Err: err}
}
