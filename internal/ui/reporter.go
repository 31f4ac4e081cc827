// Package ui provides user-facing console output for the incant CLI.
//
// All lifecycle and provisioning code reports progress through the [Reporter]
// interface rather than writing to stdout directly, so tests can capture or
// silence output.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Reporter is the output contract used across the engine. Implementations
// must never fail; reporting is fire-and-forget.
type Reporter interface {
	Info(msg string)
	Success(msg string)
	Warning(msg string)
	Error(msg string)
	// Echo prints a command line about to be executed.
	Echo(msg string)
	Header(msg string)
	// Verbose reports whether verbose output was requested, so callers can
	// skip building progress detail nobody will see.
	Verbose() bool
}

// ConsoleReporter writes styled messages to a terminal. Styling is disabled
// when the writer is not a TTY or NO_COLOR is set.
type ConsoleReporter struct {
	out     io.Writer
	styled  bool
	verbose bool
}

// NewConsoleReporter creates a reporter writing to stdout.
func NewConsoleReporter(verbose bool) *ConsoleReporter {
	return &ConsoleReporter{
		out:     os.Stdout,
		styled:  isatty.IsTerminal(os.Stdout.Fd()) && os.Getenv("NO_COLOR") == "",
		verbose: verbose,
	}
}

// NewWriterReporter creates a reporter writing unstyled output to w.
func NewWriterReporter(w io.Writer, verbose bool) *ConsoleReporter {
	return &ConsoleReporter{out: w, verbose: verbose}
}

// Verbose reports whether verbose output was requested.
func (r *ConsoleReporter) Verbose() bool {
	return r.verbose
}

func (r *ConsoleReporter) print(style lipgloss.Style, msg string) {
	if r.styled {
		msg = style.Render(msg)
	}
	fmt.Fprintln(r.out, msg)
}

// Info implements Reporter.
func (r *ConsoleReporter) Info(msg string) {
	r.print(infoStyle, msg)
}

// Success implements Reporter.
func (r *ConsoleReporter) Success(msg string) {
	r.print(successStyle, msg)
}

// Warning implements Reporter.
func (r *ConsoleReporter) Warning(msg string) {
	r.print(warningStyle, msg)
}

// Error implements Reporter.
func (r *ConsoleReporter) Error(msg string) {
	r.print(errorStyle, msg)
}

// Echo implements Reporter. Command echoes are dimmed so they read as
// progress noise next to the lifecycle messages.
func (r *ConsoleReporter) Echo(msg string) {
	r.print(echoStyle, "-> "+msg)
}

// Header implements Reporter.
func (r *ConsoleReporter) Header(msg string) {
	r.print(headerStyle, msg)
}

// NopReporter discards all output. Used in tests.
type NopReporter struct{}

func (NopReporter) Info(string)    {}
func (NopReporter) Success(string) {}
func (NopReporter) Warning(string) {}
func (NopReporter) Error(string)   {}
func (NopReporter) Echo(string)    {}
func (NopReporter) Header(string)  {}
func (NopReporter) Verbose() bool  { return false }
