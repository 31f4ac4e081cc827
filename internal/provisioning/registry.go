package provisioning

import (
	"context"
	"fmt"
	"sort"

	"github.com/incantproject/incant/internal/platform/incus"
)

// Plugin is a named provisioner behavior selected by its step key. Plugins
// own their payload validation and must be idempotent under re-invocation.
type Plugin interface {
	// Validate checks the step payload before any instance operation runs.
	Validate(cfg any) error

	// Apply executes the plugin against the instance.
	Apply(ctx context.Context, p *Provisioner, instance string, cfg any) error
}

// registry maps step keys to plugins. Populated at process start; never
// mutated afterwards.
var registry = map[string]Plugin{
	"llmnr": llmnrPlugin{},
}

// PluginKeys returns the registered plugin step keys in sorted order. The
// config validator uses this set to reject unknown step types.
func PluginKeys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// llmnrPlugin enables link-local multicast name resolution through
// systemd-resolved so instances can reach each other by name.
type llmnrPlugin struct{}

func (llmnrPlugin) Validate(cfg any) error {
	switch cfg.(type) {
	case nil, bool:
		return nil
	default:
		return fmt.Errorf("'llmnr' takes a boolean")
	}
}

func (llmnrPlugin) Apply(ctx context.Context, p *Provisioner, instance string, cfg any) error {
	if enabled, ok := cfg.(bool); ok && !enabled {
		return nil
	}

	p.reporter.Success(fmt.Sprintf("Enabling LLMNR in %s...", instance))
	script := "mkdir -p /etc/systemd/resolved.conf.d && " +
		"printf '[Resolve]\\nLLMNR=yes\\n' > /etc/systemd/resolved.conf.d/llmnr.conf && " +
		"systemctl restart systemd-resolved"
	_, err := p.client.Exec(ctx, instance, []string{"sh", "-c", script}, incus.ExecOptions{Quiet: true})
	return err
}
