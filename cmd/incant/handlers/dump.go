package handlers

import (
	"fmt"
)

// Dump handles the dump command. The configuration is validated before
// printing so a dump never shows a config that up would reject.
func Dump(configPath string, verbose bool) error {
	reporter := newReporter(verbose)

	file, _, err := loadConfig(configPath, reporter)
	if err != nil {
		return err
	}

	rendered, err := file.Dump()
	if err != nil {
		return err
	}
	fmt.Fprint(output, rendered)
	return nil
}
