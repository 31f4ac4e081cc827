package config

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// instanceFields are the accepted top-level fields of an instance entry.
var instanceFields = map[string]bool{
	"image":         true,
	"vm":            true,
	"profiles":      true,
	"config":        true,
	"devices":       true,
	"network":       true,
	"type":          true,
	"wait":          true,
	"provision":     true,
	"shared_folder": true,
	"pre-launch":    true,
}

// copyFields are the accepted fields of a copy provisioning step.
var copyFields = map[string]bool{
	"source":      true,
	"target":      true,
	"uid":         true,
	"gid":         true,
	"mode":        true,
	"recursive":   true,
	"create_dirs": true,
}

// dnsNameRE matches DNS-safe instance names: lowercase alphanumerics and
// hyphens, not starting or ending with a hyphen.
var dnsNameRE = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// Validate checks the loaded document and returns the declared instances in
// order. pluginKeys is the set of registered provisioner plugin tags; any
// other step-type key is rejected here, so dispatch never encounters an
// unknown tag.
func Validate(f *File, pluginKeys []string) ([]InstanceConfig, error) {
	plugins := make(map[string]bool, len(pluginKeys))
	for _, k := range pluginKeys {
		plugins[k] = true
	}

	root := f.Root
	if root == nil || root.Kind == 0 || len(root.Content) == 0 {
		return nil, Errorf("no configuration loaded")
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, Errorf("configuration must be a mapping")
	}

	instances := mappingValue(doc, "instances")
	if instances == nil {
		return nil, Errorf("no instances found in config")
	}
	if instances.Kind != yaml.MappingNode {
		return nil, Errorf("'instances' must be a mapping of name to instance")
	}

	var out []InstanceConfig
	seen := make(map[string]bool)
	for i := 0; i < len(instances.Content); i += 2 {
		nameNode, body := instances.Content[i], instances.Content[i+1]
		name := nameNode.Value
		if !dnsNameRE.MatchString(name) || len(name) > 63 {
			return nil, Errorf("instance name %q is not a valid DNS-safe name", name)
		}
		if seen[name] {
			return nil, Errorf("duplicate instance name %q", name)
		}
		seen[name] = true

		cfg, err := validateInstance(name, body, plugins)
		if err != nil {
			return nil, err
		}
		out = append(out, *cfg)
	}
	if len(out) == 0 {
		return nil, Errorf("no instances found in config")
	}
	return out, nil
}

func validateInstance(name string, body *yaml.Node, plugins map[string]bool) (*InstanceConfig, error) {
	if body.Kind != yaml.MappingNode {
		return nil, Errorf("instance %q must be a mapping", name)
	}

	cfg := &InstanceConfig{
		Name:         name,
		SharedFolder: true,
	}

	for i := 0; i < len(body.Content); i += 2 {
		key, value := body.Content[i].Value, body.Content[i+1]

		var err error
		switch key {
		case "image":
			err = value.Decode(&cfg.Image)
		case "vm":
			err = value.Decode(&cfg.VM)
		case "profiles":
			err = value.Decode(&cfg.Profiles)
		case "config":
			err = value.Decode(&cfg.Config)
		case "devices":
			err = value.Decode(&cfg.Devices)
		case "network":
			err = value.Decode(&cfg.Network)
		case "type":
			err = value.Decode(&cfg.Type)
		case "wait":
			err = value.Decode(&cfg.Wait)
		case "shared_folder":
			err = value.Decode(&cfg.SharedFolder)
		case "pre-launch":
			cfg.PreLaunch, err = validatePreLaunch(name, value)
		case "provision":
			cfg.Provision, err = validateProvision(name, value, plugins)
		default:
			return nil, Errorf("unknown field %q in instance %q", key, name)
		}
		if err != nil {
			if IsConfigurationError(err) {
				return nil, err
			}
			return nil, &ConfigurationError{Message: fmt.Sprintf("instance %q: invalid %q value", name, key), Err: err}
		}
	}

	if cfg.Image == "" {
		return nil, Errorf("instance %q is missing required 'image' field", name)
	}
	return cfg, nil
}

func validatePreLaunch(name string, node *yaml.Node) ([]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, Errorf("instance %q: 'pre-launch' must be a list of strings", name)
	}
	var cmds []string
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
			return nil, Errorf("instance %q: 'pre-launch' must be a list of strings", name)
		}
		cmds = append(cmds, item.Value)
	}
	return cmds, nil
}

func validateProvision(name string, node *yaml.Node, plugins map[string]bool) ([]Step, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag != "!!str" {
			return nil, Errorf("instance %q: 'provision' must be a string or a list", name)
		}
		return []Step{{Run: node.Value}}, nil
	case yaml.SequenceNode:
		var steps []Step
		for idx, item := range node.Content {
			step, err := validateStep(name, idx, item, plugins)
			if err != nil {
				return nil, err
			}
			steps = append(steps, *step)
		}
		return steps, nil
	default:
		return nil, Errorf("instance %q: 'provision' must be a string or a list", name)
	}
}

func validateStep(name string, idx int, node *yaml.Node, plugins map[string]bool) (*Step, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag != "!!str" {
			return nil, Errorf("instance %q: provisioning step %d must be a string or a single-key mapping", name, idx+1)
		}
		return &Step{Run: node.Value}, nil
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return nil, Errorf("instance %q: provisioning step %d must have exactly one key", name, idx+1)
		}
		key, value := node.Content[0].Value, node.Content[1]
		switch {
		case key == "copy":
			copyStep, err := validateCopy(name, idx, value)
			if err != nil {
				return nil, err
			}
			return &Step{Copy: copyStep}, nil
		case key == "ssh":
			sshStep, err := validateSSH(name, idx, value)
			if err != nil {
				return nil, err
			}
			return &Step{SSH: sshStep}, nil
		case plugins[key]:
			var payload any
			if err := value.Decode(&payload); err != nil {
				return nil, &ConfigurationError{Message: fmt.Sprintf("instance %q: invalid %q step", name, key), Err: err}
			}
			return &Step{Plugin: &PluginStep{Key: key, Config: payload}}, nil
		default:
			return nil, Errorf("instance %q: unknown provisioning step type %q", name, key)
		}
	default:
		return nil, Errorf("instance %q: provisioning step %d must be a string or a single-key mapping", name, idx+1)
	}
}

func validateCopy(name string, idx int, node *yaml.Node) (*CopyStep, error) {
	if node.Kind != yaml.MappingNode {
		return nil, Errorf("instance %q: 'copy' step %d must be a mapping", name, idx+1)
	}

	step := &CopyStep{}
	for i := 0; i < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		if !copyFields[key] {
			return nil, Errorf("instance %q: unknown 'copy' field %q", name, key)
		}

		var err error
		switch key {
		case "source":
			err = decodeString(value, &step.Source)
		case "target":
			err = decodeString(value, &step.Target)
		case "uid":
			var uid int
			if err = decodeInt(value, &uid); err == nil {
				step.UID = &uid
			}
		case "gid":
			var gid int
			if err = decodeInt(value, &gid); err == nil {
				step.GID = &gid
			}
		case "mode":
			err = decodeString(value, &step.Mode)
		case "recursive":
			err = decodeBool(value, &step.Recursive)
		case "create_dirs":
			err = decodeBool(value, &step.CreateDirs)
		}
		if err != nil {
			return nil, Errorf("instance %q: 'copy' field %q: %v", name, key, err)
		}
	}

	if step.Source == "" || step.Target == "" {
		return nil, Errorf("instance %q: 'copy' step requires 'source' and 'target'", name)
	}
	return step, nil
}

func validateSSH(name string, idx int, node *yaml.Node) (*SSHStep, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var enabled bool
		if err := decodeBool(node, &enabled); err != nil {
			return nil, Errorf("instance %q: 'ssh' step %d must be a boolean or a mapping", name, idx+1)
		}
		// Bare booleans get the default behavior.
		return &SSHStep{CleanKnownHosts: true}, nil
	case yaml.MappingNode:
		step := &SSHStep{}
		for i := 0; i < len(node.Content); i += 2 {
			key, value := node.Content[i].Value, node.Content[i+1]
			var err error
			switch key {
			case "authorized_keys":
				err = decodeString(value, &step.AuthorizedKeys)
			case "clean_known_hosts":
				err = decodeBool(value, &step.CleanKnownHosts)
			default:
				return nil, Errorf("instance %q: unknown 'ssh' field %q", name, key)
			}
			if err != nil {
				return nil, Errorf("instance %q: 'ssh' field %q: %v", name, key, err)
			}
		}
		return step, nil
	default:
		return nil, Errorf("instance %q: 'ssh' step %d must be a boolean or a mapping", name, idx+1)
	}
}

// mappingValue returns the value node for key in a mapping node, or nil.
func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func decodeString(node *yaml.Node, dst *string) error {
	if node.Kind != yaml.ScalarNode || node.Tag != "!!str" {
		return fmt.Errorf("expected a string")
	}
	*dst = node.Value
	return nil
}

func decodeInt(node *yaml.Node, dst *int) error {
	if node.Kind != yaml.ScalarNode || node.Tag != "!!int" {
		return fmt.Errorf("expected an integer")
	}
	return node.Decode(dst)
}

func decodeBool(node *yaml.Node, dst *bool) error {
	if node.Kind != yaml.ScalarNode || node.Tag != "!!bool" {
		return fmt.Errorf("expected a boolean")
	}
	return node.Decode(dst)
}

// Names returns the instance names in declared order.
func Names(instances []InstanceConfig) []string {
	names := make([]string, len(instances))
	for i, inst := range instances {
		names[i] = inst.Name
	}
	return names
}

// ByName returns the instance with the given name, or nil.
func ByName(instances []InstanceConfig, name string) *InstanceConfig {
	for i := range instances {
		if instances[i].Name == name {
			return &instances[i]
		}
	}
	return nil
}
