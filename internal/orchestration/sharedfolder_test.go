package orchestration

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incantproject/incant/internal/platform/incus"
	"github.com/incantproject/incant/internal/ui"
)

func newTestSharedFolder(client *incus.MockClient) *SharedFolder {
	s := NewSharedFolder(client, ui.NopReporter{}, "/home/dev/project")
	s.sleep = func(context.Context, time.Duration) error { return nil }
	return s
}

func TestEstablishOptimisticAttach(t *testing.T) {
	client := &incus.MockClient{}
	var gotAttrs []string
	client.AddDeviceFunc = func(_ context.Context, name, device, devType string, attrs []string) error {
		assert.Equal(t, "web", name)
		assert.Equal(t, "web_shared_incant", device)
		assert.Equal(t, "disk", devType)
		gotAttrs = attrs
		return nil
	}
	s := newTestSharedFolder(client)

	require.NoError(t, s.Establish(context.Background(), "web"))

	assert.Equal(t, []string{"source=/home/dev/project", "path=/incant", "shift=true"}, gotAttrs)
	assert.Equal(t, 1, client.CallsTo("AddDevice"))
	assert.Equal(t, 1, client.CallsTo("Exec"))
	assert.Zero(t, client.CallsTo("RemoveDevice"))
}

func TestEstablishFallsBackWithoutShift(t *testing.T) {
	client := &incus.MockClient{}
	var attempts [][]string
	client.AddDeviceFunc = func(_ context.Context, _, _, _ string, attrs []string) error {
		attempts = append(attempts, attrs)
		for _, a := range attrs {
			if a == "shift=true" {
				return errors.New("shifting not supported")
			}
		}
		return nil
	}
	s := newTestSharedFolder(client)

	require.NoError(t, s.Establish(context.Background(), "web"))

	require.Len(t, attempts, 2, "optimistic attach, then a plain fallback")
	assert.Contains(t, attempts[0], "shift=true")
	assert.NotContains(t, attempts[1], "shift=true")
	assert.Equal(t, 1, client.CallsTo("Exec"), "a working mount needs a single check")
	assert.Zero(t, client.CallsTo("RemoveDevice"))
}

func TestEstablishBothAttachesFail(t *testing.T) {
	client := &incus.MockClient{}
	client.AddDeviceFunc = func(context.Context, string, string, string, []string) error {
		return errors.New("no space on device")
	}
	s := newTestSharedFolder(client)

	err := s.Establish(context.Background(), "web")

	require.Error(t, err)
	assert.Equal(t, 2, client.CallsTo("AddDevice"))
	assert.Zero(t, client.CallsTo("Exec"), "attach failure surfaces without mount checks")
}

func TestEstablishRecreatesSlowDevice(t *testing.T) {
	client := &incus.MockClient{}
	checks := 0
	client.ExecFunc = func(_ context.Context, _ string, command []string, _ incus.ExecOptions) (string, error) {
		require.Equal(t, "grep", command[0])
		checks++
		// Mount appears only after the device was re-created once.
		if checks <= mountChecks {
			return "", errors.New("exit status 1")
		}
		return "", nil
	}
	s := newTestSharedFolder(client)

	require.NoError(t, s.Establish(context.Background(), "web"))

	assert.Equal(t, 2, client.CallsTo("AddDevice"))
	assert.Equal(t, 1, client.CallsTo("RemoveDevice"))
	assert.Equal(t, mountChecks+1, checks)
}

func TestEstablishExhaustsAfterTenAttempts(t *testing.T) {
	client := &incus.MockClient{}
	client.ExecFunc = func(_ context.Context, _ string, _ []string, _ incus.ExecOptions) (string, error) {
		return "", errors.New("exit status 1")
	}
	s := newTestSharedFolder(client)

	err := s.Establish(context.Background(), "web")

	require.Error(t, err)
	assert.True(t, incus.IsInstanceError(err))
	assert.True(t, strings.Contains(err.Error(), "shared folder creation failed"), err.Error())
	assert.Equal(t, attachAttempts, client.CallsTo("RemoveDevice"))
	assert.Equal(t, attachAttempts+1, client.CallsTo("AddDevice"))
	assert.Equal(t, attachAttempts*mountChecks, client.CallsTo("Exec"))
}
