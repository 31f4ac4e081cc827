package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/incantproject/incant/internal/platform/incus"
	"github.com/incantproject/incant/internal/provisioning"
	"github.com/incantproject/incant/internal/ui"
)

const (
	// sharedDeviceSuffix names the disk device carrying the working
	// directory, per instance.
	sharedDeviceSuffix = "_shared_incant"

	// Device attachment occasionally races inside the external tool
	// (https://github.com/lxc/incus/issues/1881). mountChecks quick probes
	// cover slow-but-working mounts; attachAttempts re-creations cover the
	// race itself. The ceiling is deliberate: unbounded retry would hang.
	mountChecks    = 3
	attachAttempts = 10
)

// SharedFolder attaches the host working directory to instances as a disk
// device mounted at a fixed in-guest path.
type SharedFolder struct {
	client   incus.InstanceManager
	reporter ui.Reporter

	// hostDir is the directory shared into every instance, normally the
	// working directory the CLI was invoked from.
	hostDir string

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewSharedFolder creates a SharedFolder sharing hostDir.
func NewSharedFolder(client incus.InstanceManager, reporter ui.Reporter, hostDir string) *SharedFolder {
	return &SharedFolder{
		client:   client,
		reporter: reporter,
		hostDir:  hostDir,
		sleep:    sleepContext,
	}
}

// Establish idempotently attaches the shared folder to the instance and
// verifies the guest actually mounted it. Attachment is attempted with
// ownership shifting first and falls back to a plain attach for guest
// kernels that lack the feature. An unverified mount is re-created up to
// attachAttempts times before giving up.
func (s *SharedFolder) Establish(ctx context.Context, name string) error {
	device := name + sharedDeviceSuffix

	if err := s.attach(ctx, name, device); err != nil {
		return err
	}
	for attempt := 0; attempt < attachAttempts; attempt++ {
		if s.mounted(ctx, name) {
			return nil
		}
		s.reporter.Warning(fmt.Sprintf("Shared folder creation failed (%s not mounted). Retrying...", provisioning.MountPath))
		if err := s.client.RemoveDevice(ctx, name, device); err != nil {
			return err
		}
		if err := s.attach(ctx, name, device); err != nil {
			return err
		}
	}
	return &incus.InstanceError{Name: name, Message: "shared folder creation failed"}
}

func (s *SharedFolder) attach(ctx context.Context, name, device string) error {
	attrs := []string{
		"source=" + s.hostDir,
		"path=" + provisioning.MountPath,
		"shift=true",
	}
	if err := s.client.AddDevice(ctx, name, device, "disk", attrs); err == nil {
		return nil
	}
	s.reporter.Warning("Shared folder creation failed. Retrying without shift=true...")
	return s.client.AddDevice(ctx, name, device, "disk", attrs[:2])
}

// mounted probes the guest mount table a few times, spaced out to give a
// slow mount a chance to land.
func (s *SharedFolder) mounted(ctx context.Context, name string) bool {
	for check := 0; check < mountChecks; check++ {
		_, err := s.client.Exec(ctx, name,
			[]string{"grep", "-wq", provisioning.MountPath, "/proc/mounts"},
			incus.ExecOptions{Quiet: true})
		if err == nil {
			return true
		}
		if check < mountChecks-1 {
			if err := s.sleep(ctx, time.Second); err != nil {
				return false
			}
		}
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
