package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// WizardResult holds the user's choices from the init wizard.
type WizardResult struct {
	Name  string
	Image string
	VM    bool
	SSH   bool
}

// imageOptions are the images offered by the wizard. Any image reference can
// still be typed into the generated file afterwards.
var imageOptions = []huh.Option[string]{
	huh.NewOption("Debian 13", "images:debian/13"),
	huh.NewOption("Debian 12", "images:debian/12"),
	huh.NewOption("Ubuntu 24.04", "images:ubuntu/24.04"),
	huh.NewOption("Ubuntu 22.04", "images:ubuntu/22.04"),
	huh.NewOption("Alpine 3.22", "images:alpine/3.22"),
}

// RunWizard runs the interactive configuration wizard.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		// Defaults
		Image: "images:debian/13",
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Instance name").
				Description("A unique name for the instance (DNS-safe, lowercase)").
				Placeholder("dev").
				Value(&result.Name).
				Validate(validateInstanceName),
		),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Image").
				Description("Image to launch the instance from").
				Options(imageOptions...).
				Value(&result.Image),
		),

		huh.NewGroup(
			huh.NewConfirm().
				Title("Virtual machine?").
				Description("Run a KVM virtual machine instead of a container").
				Value(&result.VM),
		),

		huh.NewGroup(
			huh.NewConfirm().
				Title("Set up SSH access?").
				Description("Install an SSH server and seed your public keys").
				Value(&result.SSH),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard aborted: %w", err)
	}
	return result, nil
}

// validateInstanceName validates wizard input against the same rules as the
// config validator.
func validateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > 63 || !dnsNameRE.MatchString(name) {
		return fmt.Errorf("use lowercase letters, digits and hyphens")
	}
	return nil
}

// RenderWizardConfig turns wizard choices into a configuration file body.
func (r *WizardResult) RenderWizardConfig() string {
	var b strings.Builder
	b.WriteString("instances:\n")
	fmt.Fprintf(&b, "  %s:\n", r.Name)
	fmt.Fprintf(&b, "    image: %s\n", r.Image)
	if r.VM {
		b.WriteString("    vm: true\n")
	}
	if r.SSH {
		b.WriteString("    provision:\n")
		b.WriteString("      - ssh: true\n")
	}
	return b.String()
}

// WriteWizardConfig writes the rendered wizard config to path, refusing to
// overwrite an existing file.
func WriteWizardConfig(path string, result *WizardResult) error {
	return writeNewFile(path, result.RenderWizardConfig())
}
