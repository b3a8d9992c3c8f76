package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
	"github.com/felixgeelhaar/clawquant/internal/domain/settings"
	"github.com/felixgeelhaar/clawquant/internal/domain/wizard"
	"github.com/felixgeelhaar/clawquant/internal/ports"
	"github.com/felixgeelhaar/clawquant/internal/validation"
)

// PythonEnvVar selects the interpreter used to install plugin packages.
const PythonEnvVar = "CLAWQUANT_PYTHON"

// DefaultPython is used when PythonEnvVar is unset.
const DefaultPython = "python3"

// Dependencies lists the extra Python packages of the plugins enabled in
// the settings under home.
func (c *ClawQuant) Dependencies(ctx context.Context, home string) ([]string, error) {
	catalog, err := c.Catalog(ctx, home)
	if err != nil {
		return nil, err
	}
	ws, err := c.Workspace(home)
	if err != nil {
		return nil, err
	}
	doc, err := ws.LoadDocument()
	if err != nil {
		return nil, err
	}

	var enabled []plugin.Descriptor
	for _, name := range enabledNames(settings.LoadEnabled(doc)) {
		if desc, err := catalog.Get(name); err == nil {
			enabled = append(enabled, desc)
		}
	}
	return wizard.ExtraDependencies(enabled), nil
}

// InstallDependencies runs "<python> -m pip install" for deps. Every
// specifier is validated before anything runs.
func (c *ClawQuant) InstallDependencies(ctx context.Context, runner ports.CommandRunner, deps []string) error {
	if len(deps) == 0 {
		return nil
	}
	for _, d := range deps {
		if err := validation.ValidatePipPackage(d); err != nil {
			return fmt.Errorf("refusing to install %q: %w", d, err)
		}
	}

	python := strings.TrimSpace(os.Getenv(PythonEnvVar))
	if python == "" {
		python = DefaultPython
	}
	args := append([]string{"-m", "pip", "install"}, deps...)

	c.logger.Info(ctx, "installing plugin dependencies",
		ports.F("python", python),
		ports.F("packages", strings.Join(deps, " ")),
	)
	result, err := runner.Run(ctx, python, args...)
	if err != nil {
		return fmt.Errorf("running pip: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("pip install exited with status %d: %s", result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return nil
}

// enabledNames flattens the enabled set in category order.
func enabledNames(set settings.EnabledSet) []string {
	var names []string
	for _, cat := range plugin.CategoryOrder {
		names = append(names, set.Names(cat)...)
	}
	return names
}
