// Package incus wraps the Incus command-line client.
//
// [Runner] executes the external binary and captures output; [CLIClient]
// builds the typed instance operations (launch, delete, exec, file push,
// state query, device add/remove, interactive shell) on top of it. The
// binary name is constructor state so tests can point the client at a fake.
package incus
