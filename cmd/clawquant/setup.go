package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/clawquant/internal/adapters/command"
	"github.com/felixgeelhaar/clawquant/internal/domain/wizard"
	"github.com/felixgeelhaar/clawquant/internal/tui"
	"github.com/felixgeelhaar/clawquant/internal/tui/ui"
)

const tagline = "Lightweight event-driven trading advisory system"

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively choose and configure plugins",
	Long: `Setup walks through every plugin category, lets you pick the plugins
to enable and asks for their settings. Existing values are offered as
defaults and nothing is written until the last question is answered.

Examples:
  clawquant setup
  clawquant setup --home ~/trading/clawquant
  clawquant setup --secrets-backend keyring
  clawquant setup --install-deps`,
	RunE: runSetup,
}

var setupInstallDeps bool

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().BoolVar(&setupInstallDeps, "install-deps", false, "install the enabled plugins' Python packages with pip")
}

func runSetup(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(runContext(cmd), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	printBanner(out)

	home, err := resolveHome()
	if err != nil {
		return err
	}

	cq := newApp(out)
	res, err := cq.Wizard(tui.NewPrompter(nil, nil)).Run(ctx, home)
	if err != nil {
		return err
	}
	if res.Cancelled {
		_, _ = fmt.Fprintln(out, "\n  Setup cancelled.")
		return nil
	}

	printSetupSummary(out, res)
	if setupInstallDeps && len(res.ExtraDependencies) > 0 {
		_, _ = fmt.Fprintln(out)
		return cq.InstallDependencies(ctx, command.NewRunner(out), res.ExtraDependencies)
	}
	return nil
}

func printBanner(w io.Writer) {
	styles := ui.DefaultStyles()
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "  "+styles.Banner.Render("ClawQuant"))
	_, _ = fmt.Fprintln(w, "  "+styles.Tagline.Render(tagline))
	_, _ = fmt.Fprintln(w)
}

func printSetupSummary(w io.Writer, res wizard.Result) {
	styles := ui.DefaultStyles()
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "  Config:   %s\n", res.ConfigPath)
	_, _ = fmt.Fprintf(w, "  Secrets:  %s\n", res.SecretsLocation)

	if len(res.ExtraDependencies) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "  Install extra dependencies for the enabled plugins:")
		_, _ = fmt.Fprintf(w, "    %s\n", pipInstallCommand(res.ExtraDependencies))
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "  "+styles.Success.Render("ClawQuant is ready! Try:"))
	_, _ = fmt.Fprintln(w, "    clawquant task list")
	_, _ = fmt.Fprintln(w, "    clawquant mcp")
}

// pipInstallCommand quotes specifiers the shell would treat as redirects.
func pipInstallCommand(deps []string) string {
	parts := make([]string, 0, len(deps)+2)
	parts = append(parts, "pip", "install")
	for _, d := range deps {
		if strings.ContainsAny(d, "<>") {
			d = "'" + d + "'"
		}
		parts = append(parts, d)
	}
	return strings.Join(parts, " ")
}

// runContext returns the command context, or Background outside Execute.
func runContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
