// Package handlers implements the CLI command logic.
//
// Each handler wires the configuration, the platform client, and the
// orchestration engine together for one command. Collaborators are built
// through factory function variables so tests can swap in fakes.
package handlers

import (
	"os"
	"path/filepath"

	"github.com/incantproject/incant/internal/config"
	"github.com/incantproject/incant/internal/orchestration"
	"github.com/incantproject/incant/internal/platform/incus"
	"github.com/incantproject/incant/internal/provisioning"
	"github.com/incantproject/incant/internal/ui"
	"github.com/incantproject/incant/internal/util/prerequisites"
)

// incusBinary is the external tool every instance operation goes through.
const incusBinary = "incus"

// Factory function variables - can be replaced in tests.
var (
	// newReporter creates the console reporter.
	newReporter = func(verbose bool) ui.Reporter {
		return ui.NewConsoleReporter(verbose)
	}

	// newInstanceManager creates the Incus client.
	newInstanceManager = func(reporter ui.Reporter) incus.InstanceManager {
		return incus.NewCLIClient(incus.NewExecRunner(incusBinary, reporter), reporter)
	}

	// newOrchestrator assembles the lifecycle engine.
	newOrchestrator = buildOrchestrator

	// checkPrerequisites verifies the required client tools.
	checkPrerequisites = prerequisites.CheckDefault
)

// loadConfig finds, renders and validates the configuration file.
func loadConfig(configPath string, reporter ui.Reporter) (*config.File, []config.InstanceConfig, error) {
	path, err := config.FindFile(configPath)
	if err != nil {
		return nil, nil, err
	}
	if reporter.Verbose() {
		reporter.Success("Config found at: " + path)
	}

	file, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	instances, err := config.Validate(file, provisioning.PluginKeys())
	if err != nil {
		return nil, nil, err
	}
	return file, instances, nil
}

// buildOrchestrator wires the production orchestrator: prober and shared
// folder over the real client, provisioner seeded from ~/.ssh, polling
// knobs from the environment.
func buildOrchestrator(
	client incus.InstanceManager,
	reporter ui.Reporter,
	instances []config.InstanceConfig,
) (*orchestration.Orchestrator, error) {
	hostDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	keyDir := ""
	if home, err := os.UserHomeDir(); err == nil {
		keyDir = filepath.Join(home, ".ssh")
	}

	prober := orchestration.NewProber(client, reporter, config.LoadTimeouts())
	shared := orchestration.NewSharedFolder(client, reporter, hostDir)
	provisioner := provisioning.New(client, reporter, keyDir)

	return orchestration.New(client, reporter, prober, shared, provisioner, instances), nil
}

// setup builds the collaborators shared by the lifecycle handlers.
func setup(configPath string, verbose bool) (ui.Reporter, *orchestration.Orchestrator, error) {
	reporter := newReporter(verbose)

	_, instances, err := loadConfig(configPath, reporter)
	if err != nil {
		return nil, nil, err
	}

	client := newInstanceManager(reporter)
	orch, err := newOrchestrator(client, reporter, instances)
	if err != nil {
		return nil, nil, err
	}
	return reporter, orch, nil
}
