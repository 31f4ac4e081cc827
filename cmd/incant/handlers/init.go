package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/incantproject/incant/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	runWizard          = config.RunWizard
	writeWizardConfig  = config.WriteWizardConfig
	writeExampleConfig = config.WriteExample
	isTerminal         = func() bool { return isatty.IsTerminal(os.Stdout.Fd()) }
)

// Init handles the init command.
//
// With useDefaults a commented example configuration is written; otherwise
// the interactive wizard collects the instance basics first. Without a
// terminal the wizard cannot run, so the example is written instead. The
// target file is never overwritten.
func Init(ctx context.Context, verbose bool, useDefaults bool) error {
	reporter := newReporter(verbose)

	if useDefaults || !isTerminal() {
		if err := writeExampleConfig(config.ExampleFileName); err != nil {
			return err
		}
		reporter.Success(fmt.Sprintf("Example configuration written to %s", config.ExampleFileName))
		return nil
	}

	result, err := runWizard(ctx)
	if err != nil {
		return err
	}
	if err := writeWizardConfig(config.ExampleFileName, result); err != nil {
		return err
	}
	reporter.Success(fmt.Sprintf("Configuration written to %s", config.ExampleFileName))
	reporter.Info("Run 'incant up' to create the instance.")
	return nil
}
