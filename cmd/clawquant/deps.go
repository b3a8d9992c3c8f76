package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/clawquant/internal/adapters/command"
	"github.com/felixgeelhaar/clawquant/internal/app"
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Show or install the Python packages the enabled plugins need",
	Long: `List the extra Python packages required by the enabled plugins.
With --install they are installed with pip using $` + app.PythonEnvVar + `
(default ` + app.DefaultPython + `).

Examples:
  clawquant deps
  clawquant deps --install`,
	RunE: runDeps,
}

var depsInstall bool

func init() {
	rootCmd.AddCommand(depsCmd)

	depsCmd.Flags().BoolVar(&depsInstall, "install", false, "install the packages with pip")
}

func runDeps(cmd *cobra.Command, _ []string) error {
	home, err := resolveHomeOrDefault()
	if err != nil {
		return err
	}
	ctx := runContext(cmd)
	out := cmd.OutOrStdout()
	cq := newApp(out)

	deps, err := cq.Dependencies(ctx, home)
	if err != nil {
		return err
	}
	if len(deps) == 0 {
		_, _ = fmt.Fprintln(out, "  No extra dependencies needed.")
		return nil
	}
	if !depsInstall {
		_, _ = fmt.Fprintf(out, "  %s\n", pipInstallCommand(deps))
		return nil
	}
	return cq.InstallDependencies(ctx, command.NewRunner(out), deps)
}
