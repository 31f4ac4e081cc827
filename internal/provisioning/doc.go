// Package provisioning executes the ordered provisioning steps of an
// instance.
//
// Each step dispatches to exactly one behavior: a shell command or script,
// a file copy, SSH server setup, or a registered plugin. A failing step
// aborts the instance's pipeline without rolling back earlier steps and
// without affecting sibling instances.
package provisioning
