package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootSubcommands(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "incant", cmd.Use)

	want := []string{"up", "provision", "destroy", "shell", "list", "dump", "init", "version", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "missing subcommand %q", name)
	}
}

func TestRootGlobalFlags(t *testing.T) {
	cmd := Root()

	v := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, v)
	assert.Equal(t, "v", v.Shorthand)
	assert.Equal(t, "false", v.DefValue)

	c := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, c)
	assert.Equal(t, "f", c.Shorthand)
	assert.Equal(t, "", c.DefValue)
}

func TestUpCommand(t *testing.T) {
	cmd := Up()

	assert.Equal(t, "up [name]", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.Error(t, cmd.Args(cmd, []string{"a", "b"}), "at most one name argument")
	assert.NoError(t, cmd.Args(cmd, []string{"a"}))
	assert.NoError(t, cmd.Args(cmd, nil))
}

func TestInitCommandFlags(t *testing.T) {
	cmd := Init()

	flag := cmd.Flags().Lookup("defaults")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestOptionalName(t *testing.T) {
	assert.Equal(t, "", optionalName(nil))
	assert.Equal(t, "web", optionalName([]string{"web"}))
}
