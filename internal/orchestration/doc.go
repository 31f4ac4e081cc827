// Package orchestration drives the instance lifecycle: creation, readiness
// waits, shared-folder attachment, provisioning, and teardown.
//
// The package coordinates the order of operations but delegates the actual
// work to the platform client and the provisioner. Instances are processed
// sequentially; any concurrency (several instances booting at once) happens
// inside the external tool.
package orchestration
