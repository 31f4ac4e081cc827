package incus

import (
	"context"
	"fmt"
	"strings"

	"github.com/incantproject/incant/internal/config"
)

// MockClient is a scriptable implementation of InstanceManager for tests.
// Each method records a call entry and delegates to the corresponding
// function field when set; unset fields succeed with zero values.
type MockClient struct {
	CreateInstanceFunc  func(ctx context.Context, cfg config.InstanceConfig) error
	DestroyInstanceFunc func(ctx context.Context, name string) error
	IsInstanceFunc      func(ctx context.Context, name string) (bool, error)
	StateFunc           func(ctx context.Context, name string) (*StateInfo, error)
	ExecFunc            func(ctx context.Context, name string, command []string, opts ExecOptions) (string, error)
	PushFileFunc        func(ctx context.Context, name, source, target string, opts PushOptions) error
	AddDeviceFunc       func(ctx context.Context, name, device, devType string, attrs []string) error
	RemoveDeviceFunc    func(ctx context.Context, name, device string) error
	ShellFunc           func(ctx context.Context, name string) (int, error)
	CurrentProjectFunc  func(ctx context.Context) (string, error)

	// Calls records every invocation as "method name" entries, e.g.
	// "Exec web true" for the usability probe.
	Calls []string
}

var _ InstanceManager = (*MockClient)(nil)

func (m *MockClient) record(format string, args ...any) {
	m.Calls = append(m.Calls, fmt.Sprintf(format, args...))
}

// CallsTo counts recorded calls whose entry starts with prefix.
func (m *MockClient) CallsTo(prefix string) int {
	n := 0
	for _, call := range m.Calls {
		if strings.HasPrefix(call, prefix) {
			n++
		}
	}
	return n
}

func (m *MockClient) CreateInstance(ctx context.Context, cfg config.InstanceConfig) error {
	m.record("CreateInstance %s", cfg.Name)
	if m.CreateInstanceFunc != nil {
		return m.CreateInstanceFunc(ctx, cfg)
	}
	return nil
}

func (m *MockClient) DestroyInstance(ctx context.Context, name string) error {
	m.record("DestroyInstance %s", name)
	if m.DestroyInstanceFunc != nil {
		return m.DestroyInstanceFunc(ctx, name)
	}
	return nil
}

func (m *MockClient) IsInstance(ctx context.Context, name string) (bool, error) {
	m.record("IsInstance %s", name)
	if m.IsInstanceFunc != nil {
		return m.IsInstanceFunc(ctx, name)
	}
	return true, nil
}

func (m *MockClient) State(ctx context.Context, name string) (*StateInfo, error) {
	m.record("State %s", name)
	if m.StateFunc != nil {
		return m.StateFunc(ctx, name)
	}
	return &StateInfo{Status: "Running", Processes: 1}, nil
}

func (m *MockClient) Exec(ctx context.Context, name string, command []string, opts ExecOptions) (string, error) {
	m.record("Exec %s %s", name, strings.Join(command, " "))
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, name, command, opts)
	}
	return "", nil
}

func (m *MockClient) PushFile(ctx context.Context, name, source, target string, opts PushOptions) error {
	m.record("PushFile %s %s %s", name, source, target)
	if m.PushFileFunc != nil {
		return m.PushFileFunc(ctx, name, source, target, opts)
	}
	return nil
}

func (m *MockClient) AddDevice(ctx context.Context, name, device, devType string, attrs []string) error {
	m.record("AddDevice %s %s", name, device)
	if m.AddDeviceFunc != nil {
		return m.AddDeviceFunc(ctx, name, device, devType, attrs)
	}
	return nil
}

func (m *MockClient) RemoveDevice(ctx context.Context, name, device string) error {
	m.record("RemoveDevice %s %s", name, device)
	if m.RemoveDeviceFunc != nil {
		return m.RemoveDeviceFunc(ctx, name, device)
	}
	return nil
}

func (m *MockClient) Shell(ctx context.Context, name string) (int, error) {
	m.record("Shell %s", name)
	if m.ShellFunc != nil {
		return m.ShellFunc(ctx, name)
	}
	return 0, nil
}

func (m *MockClient) CurrentProject(ctx context.Context) (string, error) {
	m.record("CurrentProject")
	if m.CurrentProjectFunc != nil {
		return m.CurrentProjectFunc(ctx)
	}
	return "default", nil
}
