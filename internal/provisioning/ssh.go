package provisioning

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/incantproject/incant/internal/config"
	"github.com/incantproject/incant/internal/platform/incus"
	"github.com/incantproject/incant/internal/util/ptr"
)

// applySSH installs an SSH server in the instance and seeds root's
// authorized_keys. The whole step is idempotent: package installation,
// directory creation, and the key push can all be re-run safely.
func (p *Provisioner) applySSH(ctx context.Context, instance string, step *config.SSHStep) error {
	p.reporter.Success(fmt.Sprintf("Installing SSH server in %s...", instance))
	_, err := p.client.Exec(ctx, instance,
		[]string{"sh", "-c", "apt-get update && apt-get -y install ssh"},
		incus.ExecOptions{Quiet: true})
	if err != nil {
		p.reporter.Error(fmt.Sprintf(
			"Failed to install SSH server in %s. Currently, only apt-based systems are supported for ssh setup.",
			instance))
		return nil
	}

	p.reporter.Success(fmt.Sprintf("Filling authorized_keys in %s...", instance))
	if _, err := p.client.Exec(ctx, instance, []string{"mkdir", "-p", "/root/.ssh"}, incus.ExecOptions{Quiet: true}); err != nil {
		return err
	}

	content := p.authorizedKeysContent(step.AuthorizedKeys)
	if content != "" {
		if err := p.pushAuthorizedKeys(ctx, instance, content); err != nil {
			return err
		}
	} else {
		p.reporter.Warning("No public keys found and no authorized_keys file provided. " +
			"SSH access might not be possible without a password.")
	}

	if step.CleanKnownHosts {
		p.cleanKnownHosts(ctx, instance)
	}
	return nil
}

// authorizedKeysContent resolves the keys to seed: an explicit file when
// configured, otherwise every valid public key in the user's key directory.
func (p *Provisioner) authorizedKeysContent(explicit string) string {
	if explicit != "" {
		path := expandHome(explicit)
		data, err := os.ReadFile(path)
		if err != nil {
			p.reporter.Warning(fmt.Sprintf("Provided authorized_keys file not found: %s. Skipping copy.", path))
			return ""
		}
		return string(data)
	}

	matches, _ := filepath.Glob(filepath.Join(p.keyDir, "id_*.pub"))
	var keys []string
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		key := strings.TrimSpace(string(data))
		if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(key)); err != nil {
			p.reporter.Warning(fmt.Sprintf("Skipping %s: not a valid public key.", path))
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return ""
	}
	return strings.Join(keys, "\n") + "\n"
}

func (p *Provisioner) pushAuthorizedKeys(ctx context.Context, instance, content string) error {
	tmp, err := os.CreateTemp("", "incant_authorized_keys_")
	if err != nil {
		return fmt.Errorf("failed to stage authorized_keys: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to stage authorized_keys: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to stage authorized_keys: %w", err)
	}

	return p.client.PushFile(ctx, instance, tmp.Name(), "/root/.ssh/authorized_keys", incus.PushOptions{
		UID:   ptr.Int(0),
		GID:   ptr.Int(0),
		Quiet: true,
	})
}

// cleanKnownHosts refreshes the instance's entry in the user's known_hosts:
// the stale key is removed and a short probe connection accepts the new
// one. Both commands are best-effort; SSH may simply not be reachable yet.
func (p *Provisioner) cleanKnownHosts(ctx context.Context, instance string) {
	p.reporter.Success(fmt.Sprintf("Updating %s in known_hosts to avoid SSH warnings...", instance))

	if err := p.execHost(ctx, "ssh-keygen", "-R", instance); err != nil {
		p.reporter.Warning("ssh-keygen not usable, cannot clean known_hosts.")
	}
	if err := p.execHost(ctx, "ssh",
		"-o", "StrictHostKeyChecking=accept-new",
		"-o", "BatchMode=yes",
		"-o", "ConnectTimeout=5",
		instance, "exit"); err != nil {
		p.reporter.Warning("Could not pre-accept the new host key; SSH may prompt on first connect.")
	}
}
