package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFindFileExplicit(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "fleet.yaml", "instances: {}\n")

	found, err := FindFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestFindFileExplicitMissing(t *testing.T) {
	_, err := FindFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestFindFileSearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".incant.yaml", "instances: {}\n")
	t.Chdir(dir)

	found, err := FindFile("")
	require.NoError(t, err)
	assert.Equal(t, ".incant.yaml", filepath.Base(found))
}

func TestFindFilePrefersUnhiddenName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".incant.yaml", "instances: {}\n")
	writeFile(t, dir, "incant.yaml", "instances: {}\n")
	t.Chdir(dir)

	found, err := FindFile("")
	require.NoError(t, err)
	assert.Equal(t, "incant.yaml", filepath.Base(found))
}

func TestFindFileNothingFound(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := FindFile("")
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.Contains(t, err.Error(), "no configuration file found")
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "incant.yaml", "instances:\n  web:\n    image: images:debian/13\n")

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path)
	require.NotNil(t, f.Root)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "incant.yaml", "instances: [unclosed\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestLoadRendersTemplate(t *testing.T) {
	t.Setenv("INCANT_TEST_IMAGE", "images:debian/13")
	dir := t.TempDir()
	path := writeFile(t, dir, "incant.yaml.tmpl",
		"instances:\n  web:\n    image: {{ env \"INCANT_TEST_IMAGE\" }}\n")

	f, err := Load(path)
	require.NoError(t, err)

	instances, err := Validate(f, nil)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, "images:debian/13", instances[0].Image)
}

func TestLoadRejectsBrokenTemplate(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "incant.yaml.tmpl", "instances: {{ .Missing }\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestDumpRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "incant.yaml", "instances:\n  web:\n    image: images:debian/13\n")

	f, err := Load(path)
	require.NoError(t, err)

	out, err := f.Dump()
	require.NoError(t, err)
	assert.Contains(t, out, "web:")
	assert.Contains(t, out, "image: images:debian/13")
}

func TestWriteExample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ExampleFileName)

	require.NoError(t, WriteExample(path))

	f, err := Load(path)
	require.NoError(t, err)
	instances, err := Validate(f, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"container-client", "vm-server"}, Names(instances))

	// Second write must refuse to clobber the file.
	err = WriteExample(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
