package config

// InstanceConfig describes one declared instance. It is built once by
// Validate and never mutated afterwards.
type InstanceConfig struct {
	// Name is the instance's unique, DNS-safe identifier. It doubles as the
	// addressing key for the external tool.
	Name string

	// Image is the image reference to launch from (required).
	Image string

	// VM selects a KVM virtual machine instead of a container.
	VM bool

	// Profiles are applied in order at launch.
	Profiles []string

	// Config holds tool configuration options (key=value at launch).
	Config map[string]string

	// Devices maps device name to its attribute set.
	Devices map[string]map[string]string

	// Network is an optional network to attach.
	Network string

	// Type is an optional instance type (CPU/RAM class).
	Type string

	// Wait forces the full readiness wait during up even without
	// provisioning steps.
	Wait bool

	// SharedFolder mounts the working directory into the instance.
	// Defaults to true.
	SharedFolder bool

	// PreLaunch commands run on the host before the instance is created.
	PreLaunch []string

	// Provision steps run in order after the instance is ready.
	Provision []Step
}

// Step is a single provisioning action. Exactly one field is set; Validate
// guarantees this, so dispatch never sees an ambiguous step.
type Step struct {
	// Run is a shell command, or a script when it contains a newline.
	Run string

	Copy   *CopyStep
	SSH    *SSHStep
	Plugin *PluginStep
}

// CopyStep pushes a local path into the instance.
type CopyStep struct {
	Source     string
	Target     string
	UID        *int
	GID        *int
	Mode       string
	Recursive  bool
	CreateDirs bool
}

// SSHStep installs an SSH server in the instance and seeds authorized_keys.
type SSHStep struct {
	// AuthorizedKeys is an optional path to an authorized_keys file. When
	// empty, the user's local public keys are used instead.
	AuthorizedKeys string

	// CleanKnownHosts refreshes the instance's known_hosts entry.
	CleanKnownHosts bool
}

// PluginStep invokes a registered provisioner plugin by key.
type PluginStep struct {
	Key string

	// Config is the raw payload for the plugin; each plugin validates its
	// own shape.
	Config any
}
