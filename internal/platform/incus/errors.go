package incus

import (
	"errors"
	"fmt"
	"strings"
)

// CommandError indicates a failed invocation of the external tool. It
// carries the full command line and the captured stderr.
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command %q failed: %s", e.Command, strings.TrimSpace(e.Stderr))
	}
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// InstanceError indicates a per-instance orchestration failure: a named
// instance missing from the configuration, an ambiguous shell target, or
// shared-folder retry exhaustion.
type InstanceError struct {
	Name    string
	Message string
	Err     error
}

func (e *InstanceError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg = fmt.Sprintf("instance %q: %s", e.Name, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *InstanceError) Unwrap() error {
	return e.Err
}

// IsCommandError checks whether err is a CommandError.
func IsCommandError(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce)
}

// IsInstanceError checks whether err is an InstanceError.
func IsInstanceError(err error) bool {
	var ie *InstanceError
	return errors.As(err, &ie)
}

// agentNotRunningMsg is the exact stderr the tool emits while a VM's guest
// agent has not come up yet.
const agentNotRunningMsg = "VM agent isn't currently running"

// IsAgentNotRunning reports whether err is the tool's "agent not up yet"
// rejection, which the readiness prober treats as "not yet" rather than a
// failure.
func IsAgentNotRunning(err error) bool {
	var ce *CommandError
	if !errors.As(err, &ce) {
		return false
	}
	return strings.Contains(ce.Stderr, agentNotRunningMsg)
}

// isNotFound reports whether err is the tool's "instance not found"
// rejection from a state query.
func isNotFound(err error) bool {
	var ce *CommandError
	if !errors.As(err, &ce) {
		return false
	}
	return strings.Contains(strings.ToLower(ce.Stderr), "not found")
}
