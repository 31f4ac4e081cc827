package config

import (
	"fmt"
	"os"
)

// ExampleFileName is where incant init writes its configuration.
const ExampleFileName = "incant.yaml"

// exampleConfig is the commented starter configuration written by incant init.
const exampleConfig = `instances:
  container-client:
    image: images:ubuntu/24.04
    provision: |
      #!/bin/bash
      set -xe
      apt-get update
      apt-get -y install curl
  vm-server:
    image: images:debian/13
    vm: true # KVM virtual machine, not container
    devices:
      root:
        size: 20GB # set size of root device to 20GB
    config: # tool configuration options
      limits.processes: "100"
    type: c2-m2 # 2 CPUs, 2 GB of RAM
    provision:
      # configure SSH server access
      - ssh: true
      # first, a single command
      - apt-get update && apt-get -y install ruby
      # then, a script. the path can be relative to the current dir,
      # as incant will 'cd' to the shared folder
      # - examples/provision/web_server.rb
      # then a multi-line snippet pushed as a temporary file
      - |
        #!/bin/bash
        set -xe
        echo Done!
`

// WriteExample writes the example configuration to path. It refuses to
// overwrite an existing file.
func WriteExample(path string) error {
	return writeNewFile(path, exampleConfig)
}

func writeNewFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return Errorf("%s already exists, aborting", path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return &ConfigurationError{Message: fmt.Sprintf("failed to write %s", path), Err: err}
	}
	return nil
}
