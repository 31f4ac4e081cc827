package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterReporterPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewWriterReporter(&buf, false)

	r.Info("starting")
	r.Success("created")
	r.Warning("careful")
	r.Error("broken")
	r.Header("instances")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{"starting", "created", "careful", "broken", "instances"}, lines)
}

func TestWriterReporterEchoPrefix(t *testing.T) {
	var buf bytes.Buffer
	r := NewWriterReporter(&buf, false)

	r.Echo("incus launch images:debian/13 web")

	assert.Equal(t, "-> incus launch images:debian/13 web\n", buf.String())
}

func TestVerbose(t *testing.T) {
	assert.True(t, NewWriterReporter(&bytes.Buffer{}, true).Verbose())
	assert.False(t, NewWriterReporter(&bytes.Buffer{}, false).Verbose())
}
