package handlers

import (
	"fmt"
	"io"
	"os"
)

// output is where list and dump write; tests capture it.
var output io.Writer = os.Stdout

// List handles the list command. Names print in declaration order, one per
// line, unstyled so the output is scriptable.
func List(configPath string, verbose bool) error {
	reporter := newReporter(verbose)

	_, instances, err := loadConfig(configPath, reporter)
	if err != nil {
		return err
	}
	for _, inst := range instances {
		fmt.Fprintln(output, inst.Name)
	}
	return nil
}
