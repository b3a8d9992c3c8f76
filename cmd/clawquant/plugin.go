package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
	"github.com/felixgeelhaar/clawquant/internal/domain/wizard"
	"github.com/felixgeelhaar/clawquant/internal/tui"
)

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Inspect and configure plugins",
	Long:  `List the discovered plugins, show their settings and configure one plugin at a time.`,
}

var pluginListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available plugins",
	Long: `Display every built-in plugin and those found under <home>/plugins.

Examples:
  clawquant plugin list
  clawquant plugin list --category ai_provider`,
	RunE: runPluginList,
}

var pluginInfoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show plugin details",
	Long:  `Display the description, settings and dependencies of a plugin.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPluginInfo(cmd, args[0])
	},
}

var pluginConfigureCmd = &cobra.Command{
	Use:   "configure <name>",
	Short: "Configure a single plugin",
	Long: `Ask for the settings of one plugin and update only its section of
config.yaml. Secrets are stored in the secrets backend.

Examples:
  clawquant plugin configure openai
  clawquant plugin configure telegram --secrets-backend keyring`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPluginConfigure(cmd, args[0])
	},
}

var pluginListCategory string

func init() {
	rootCmd.AddCommand(pluginCmd)
	pluginCmd.AddCommand(pluginListCmd)
	pluginCmd.AddCommand(pluginInfoCmd)
	pluginCmd.AddCommand(pluginConfigureCmd)

	pluginListCmd.Flags().StringVar(&pluginListCategory, "category", "", "only list plugins of this category")
}

func loadCatalog(cmd *cobra.Command) (*plugin.Catalog, string, error) {
	home, err := resolveHomeOrDefault()
	if err != nil {
		return nil, "", err
	}
	catalog, err := newApp(cmd.OutOrStdout()).Catalog(runContext(cmd), home)
	if err != nil {
		return nil, "", err
	}
	return catalog, home, nil
}

func runPluginList(cmd *cobra.Command, _ []string) error {
	var only plugin.Category
	if pluginListCategory != "" {
		cat, err := plugin.ParseCategory(pluginListCategory)
		if err != nil {
			return &UserError{
				Code:       ErrCodeInvalidArgument,
				Message:    fmt.Sprintf("Unknown category %q", pluginListCategory),
				Suggestion: "Use one of: " + categoryNames(),
				Underlying: err,
			}
		}
		only = cat
	}

	catalog, _, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCATEGORY\tVERSION\tSOURCE\tDESCRIPTION")
	for _, cat := range plugin.CategoryOrder {
		if only != "" && cat != only {
			continue
		}
		for _, d := range catalog.InCategory(cat) {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				d.Name(), cat, d.Version(), d.Source(), d.Description())
		}
	}
	return w.Flush()
}

func runPluginInfo(cmd *cobra.Command, name string) error {
	catalog, _, err := loadCatalog(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	desc, err := catalog.Get(name)
	if err != nil {
		return unknownPlugin(out, name)
	}
	printPluginInfo(out, desc)
	return nil
}

func printPluginInfo(w io.Writer, d plugin.Descriptor) {
	_, _ = fmt.Fprintf(w, "Name:        %s\n", d.Name())
	_, _ = fmt.Fprintf(w, "Display:     %s\n", d.DisplayName())
	_, _ = fmt.Fprintf(w, "Category:    %s\n", d.Category().Label())
	_, _ = fmt.Fprintf(w, "Version:     %s\n", d.Version())
	if d.Description() != "" {
		_, _ = fmt.Fprintf(w, "Description: %s\n", d.Description())
	}
	if p := d.Protocols(); len(p) > 0 {
		_, _ = fmt.Fprintf(w, "Protocols:   %s\n", strings.Join(p, ", "))
	}
	_, _ = fmt.Fprintf(w, "Source:      %s\n", d.Source())

	if fields := d.ConfigFields(); len(fields) > 0 {
		_, _ = fmt.Fprintln(w, "\nSettings:")
		for _, f := range fields {
			var notes []string
			if f.IsRequired() {
				notes = append(notes, "required")
			}
			if f.EnvVar() != "" {
				notes = append(notes, "env "+f.EnvVar())
			}
			if c := f.Choices(); len(c) > 0 {
				notes = append(notes, "one of "+strings.Join(c, "|"))
			}
			line := fmt.Sprintf("  • %s (%s)", f.Key(), f.Type())
			if len(notes) > 0 {
				line += " [" + strings.Join(notes, ", ") + "]"
			}
			_, _ = fmt.Fprintln(w, line)
			_, _ = fmt.Fprintf(w, "    %s\n", f.Label())
		}
	}

	if deps := d.PipDependencies(); len(deps) > 0 {
		_, _ = fmt.Fprintln(w, "\nDependencies:")
		for _, dep := range deps {
			_, _ = fmt.Fprintf(w, "  • %s\n", dep)
		}
	}
}

func runPluginConfigure(cmd *cobra.Command, name string) error {
	ctx, stop := signal.NotifyContext(runContext(cmd), os.Interrupt)
	defer stop()

	home, err := resolveHomeOrDefault()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	res, err := newApp(out).Wizard(tui.NewPrompter(nil, nil)).ConfigureOne(ctx, home, name)
	if plugin.IsNotFound(err) {
		return unknownPlugin(out, name)
	}
	if err != nil {
		return err
	}
	printConfigureResult(out, res)
	return nil
}

func printConfigureResult(w io.Writer, res wizard.OneResult) {
	display := res.Plugin.DisplayName()
	switch {
	case res.NoConfig:
		_, _ = fmt.Fprintf(w, "  %s has no configuration options.\n", display)
		return
	case res.Cancelled:
		_, _ = fmt.Fprintln(w, "\n  Configuration cancelled.")
		return
	}

	_, _ = fmt.Fprintf(w, "\n  %s configured:\n", display)
	for _, line := range wizard.Summary(res.Plugin, res.Values) {
		_, _ = fmt.Fprintf(w, "    %s\n", line)
	}
	_, _ = fmt.Fprintf(w, "\n  Saved to %s\n", res.ConfigPath)
}

// unknownPlugin prints the lookup failure and ends with exit status 1.
func unknownPlugin(w io.Writer, name string) error {
	_, _ = fmt.Fprintf(w, "  Unknown plugin: %s\n", name)
	_, _ = fmt.Fprintln(w, "  Run 'clawquant plugin list' to see available plugins.")
	return &ExitError{Code: 1}
}

func categoryNames() string {
	names := make([]string, 0, len(plugin.CategoryOrder))
	for _, c := range plugin.CategoryOrder {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
