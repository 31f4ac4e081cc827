package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// candidateNames are the configuration files searched for in the working
// directory, in priority order. The .tmpl variants are rendered with
// text/template before parsing.
var candidateNames = []string{
	"incant.yaml",
	"incant.yaml.tmpl",
	".incant.yaml",
	".incant.yaml.tmpl",
}

// File is a loaded, template-rendered configuration document.
type File struct {
	// Path is the file the document was loaded from.
	Path string

	// Root is the parsed document root.
	Root *yaml.Node
}

// FindFile returns the configuration file to use. An explicit path wins;
// otherwise the working directory is searched for the candidate names.
// Returns a ConfigurationError when nothing is found.
func FindFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", &ConfigurationError{Message: fmt.Sprintf("config file not found: %s", explicit), Err: err}
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", &ConfigurationError{Message: "cannot determine working directory", Err: err}
	}
	for _, name := range candidateNames {
		path := filepath.Join(cwd, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", Errorf("no configuration file found (looked for %s)", strings.Join(candidateNames, ", "))
}

// Load reads, renders, and parses the configuration file at path.
func Load(path string) (*File, error) {
	// #nosec G304 -- path comes from the user's own CLI invocation
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Message: fmt.Sprintf("failed to read config file %s", path), Err: err}
	}

	if strings.HasSuffix(path, ".tmpl") {
		data, err = renderTemplate(path, data)
		if err != nil {
			return nil, err
		}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ConfigurationError{Message: "failed to parse YAML", Err: err}
	}
	return &File{Path: path, Root: &root}, nil
}

// renderTemplate runs the file content through text/template. Templates can
// read host environment variables via the env function.
func renderTemplate(path string, data []byte) ([]byte, error) {
	tmpl, err := template.New(filepath.Base(path)).Funcs(template.FuncMap{
		"env": os.Getenv,
	}).Parse(string(data))
	if err != nil {
		return nil, &ConfigurationError{Message: "failed to parse config template", Err: err}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, nil); err != nil {
		return nil, &ConfigurationError{Message: "failed to render config template", Err: err}
	}
	return buf.Bytes(), nil
}

// Dump re-emits the loaded (post-template) document as YAML.
func (f *File) Dump() (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f.Root); err != nil {
		return "", &ConfigurationError{Message: "failed to dump configuration", Err: err}
	}
	if err := enc.Close(); err != nil {
		return "", &ConfigurationError{Message: "failed to dump configuration", Err: err}
	}
	return buf.String(), nil
}
