package incus

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/incantproject/incant/internal/config"
	"github.com/incantproject/incant/internal/ui"
)

// StateInfo is the subset of the tool's state query used by the readiness
// prober.
type StateInfo struct {
	// Status is the instance status, e.g. "Running" or "Stopped".
	Status string

	// Processes is the guest agent's process count. Negative while the
	// agent is not reporting.
	Processes int
}

// ExecOptions controls command execution inside an instance.
type ExecOptions struct {
	// Cwd sets the working directory inside the instance.
	Cwd string

	Capture      bool
	AllowFailure bool
	Quiet        bool
}

// PushOptions controls file pushes into an instance.
type PushOptions struct {
	UID        *int
	GID        *int
	Mode       string
	Recursive  bool
	CreateDirs bool

	// Quiet suppresses echoing the push command line. Internal pushes
	// (temporary scripts, staged credentials) are quiet.
	Quiet bool
}

// InstanceManager is the typed control surface over the external tool.
// Orchestration and provisioning depend on this interface; tests swap in
// [MockClient].
type InstanceManager interface {
	CreateInstance(ctx context.Context, cfg config.InstanceConfig) error
	DestroyInstance(ctx context.Context, name string) error
	IsInstance(ctx context.Context, name string) (bool, error)
	State(ctx context.Context, name string) (*StateInfo, error)
	Exec(ctx context.Context, name string, command []string, opts ExecOptions) (string, error)
	PushFile(ctx context.Context, name, source, target string, opts PushOptions) error
	AddDevice(ctx context.Context, name, device, devType string, attrs []string) error
	RemoveDevice(ctx context.Context, name, device string) error
	Shell(ctx context.Context, name string) (int, error)
	CurrentProject(ctx context.Context) (string, error)
}

// CLIClient implements InstanceManager by invoking the external CLI.
type CLIClient struct {
	runner   Runner
	reporter ui.Reporter
}

// NewCLIClient creates a client on top of the given runner.
func NewCLIClient(runner Runner, reporter ui.Reporter) *CLIClient {
	return &CLIClient{runner: runner, reporter: reporter}
}

var _ InstanceManager = (*CLIClient)(nil)

// CreateInstance launches an instance from its configuration.
func (c *CLIClient) CreateInstance(ctx context.Context, cfg config.InstanceConfig) error {
	args := []string{"launch", cfg.Image, cfg.Name}

	if cfg.VM {
		args = append(args, "--vm")
	}
	for _, profile := range cfg.Profiles {
		args = append(args, "--profile", profile)
	}
	for _, key := range sortedKeys(cfg.Config) {
		args = append(args, "--config", fmt.Sprintf("%s=%s", key, cfg.Config[key]))
	}
	for _, device := range sortedKeys(cfg.Devices) {
		spec := device
		attrs := cfg.Devices[device]
		for _, key := range sortedKeys(attrs) {
			spec += fmt.Sprintf(",%s=%s", key, attrs[key])
		}
		args = append(args, "--device", spec)
	}
	if cfg.Network != "" {
		args = append(args, "--network", cfg.Network)
	}
	if cfg.Type != "" {
		args = append(args, "--type", cfg.Type)
	}

	if _, err := c.runner.Run(ctx, args, RunOptions{Capture: true}); err != nil {
		return &InstanceError{Name: cfg.Name, Message: "creation failed", Err: err}
	}
	return nil
}

// DestroyInstance force-deletes an instance. Best-effort: callers pre-check
// existence, so a failing delete is reported rather than escalated.
func (c *CLIClient) DestroyInstance(ctx context.Context, name string) error {
	_, err := c.runner.Run(ctx, []string{"delete", "--force", name}, RunOptions{Capture: true, AllowFailure: true})
	return err
}

// IsInstance checks whether an instance exists. "Not found" is a negative
// answer, not an error; anything else propagates.
func (c *CLIClient) IsInstance(ctx context.Context, name string) (bool, error) {
	_, err := c.State(ctx, name)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// State runs the tool's structured state query for an instance.
func (c *CLIClient) State(ctx context.Context, name string) (*StateInfo, error) {
	project, err := c.CurrentProject(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/1.0/instances/%s?project=%s&recursion=1", name, project)
	out, err := c.runner.Run(ctx, []string{"query", endpoint}, RunOptions{Capture: true, Quiet: true})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Status string `json:"status"`
		State  struct {
			Processes int `json:"processes"`
		} `json:"state"`
	}
	// Processes defaults negative so "no state reported" never looks like a
	// running agent.
	payload.State.Processes = -1
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse state query for %s: %w", name, err)
	}
	return &StateInfo{Status: payload.Status, Processes: payload.State.Processes}, nil
}

// Exec runs a command inside an instance.
func (c *CLIClient) Exec(ctx context.Context, name string, command []string, opts ExecOptions) (string, error) {
	args := []string{"exec"}
	if opts.Cwd != "" {
		args = append(args, "--cwd", opts.Cwd)
	}
	args = append(args, name, "--")
	args = append(args, command...)

	return c.runner.Run(ctx, args, RunOptions{
		Capture:      opts.Capture,
		AllowFailure: opts.AllowFailure,
		Quiet:        opts.Quiet,
	})
}

// PushFile copies a local path into an instance.
func (c *CLIClient) PushFile(ctx context.Context, name, source, target string, opts PushOptions) error {
	args := []string{"file", "push"}
	if opts.UID != nil {
		args = append(args, "--uid", strconv.Itoa(*opts.UID))
	}
	if opts.GID != nil {
		args = append(args, "--gid", strconv.Itoa(*opts.GID))
	}
	if opts.Mode != "" {
		args = append(args, "--mode", opts.Mode)
	}
	if opts.Recursive {
		args = append(args, "--recursive")
	}
	if opts.CreateDirs {
		args = append(args, "--create-empty-directories")
	}
	args = append(args, source, name+target)

	_, err := c.runner.Run(ctx, args, RunOptions{Quiet: opts.Quiet})
	return err
}

// AddDevice attaches a device to a running instance.
func (c *CLIClient) AddDevice(ctx context.Context, name, device, devType string, attrs []string) error {
	args := append([]string{"config", "device", "add", name, device, devType}, attrs...)
	_, err := c.runner.Run(ctx, args, RunOptions{})
	return err
}

// RemoveDevice detaches a device from an instance.
func (c *CLIClient) RemoveDevice(ctx context.Context, name, device string) error {
	_, err := c.runner.Run(ctx, []string{"config", "device", "remove", name, device}, RunOptions{})
	return err
}

// Shell opens an interactive shell in the instance with the caller's
// terminal attached. The remote shell's exit code is returned as-is; a
// non-zero exit is a normal outcome, not an orchestration failure.
func (c *CLIClient) Shell(ctx context.Context, name string) (int, error) {
	c.reporter.Success(fmt.Sprintf("Opening shell in %s...", name))
	return c.runner.RunInteractive(ctx, []string{"shell", name})
}

// CurrentProject returns the tool's active project name.
func (c *CLIClient) CurrentProject(ctx context.Context) (string, error) {
	out, err := c.runner.Run(ctx, []string{"project", "get-current"}, RunOptions{Capture: true, Quiet: true})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
