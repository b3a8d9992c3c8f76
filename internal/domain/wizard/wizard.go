// Package wizard drives interactive plugin setup: choosing plugins per
// category, configuring each one's fields against previously saved values,
// and persisting the result in one final write.
package wizard

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
	"github.com/felixgeelhaar/clawquant/internal/domain/settings"
	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// DefaultHome is offered when no home directory is given.
const DefaultHome = "~/.clawquant"

// Plugin step actions.
const (
	ActionConfigure = "configure"
	ActionSkip      = "skip"
)

// MaskedValue replaces secrets in summaries.
const MaskedValue = "********"

// selectable categories are chosen by the operator. Every other category
// is enabled in full.
var selectable = map[plugin.Category]bool{
	plugin.CategoryAIProvider:  true,
	plugin.CategoryMarketData:  true,
	plugin.CategoryIntegration: true,
}

// IsSelectable reports whether plugins of cat are picked by the operator.
func IsSelectable(cat plugin.Category) bool { return selectable[cat] }

// OpenFunc opens the workspace rooted at an expanded home directory.
type OpenFunc func(home string) (*settings.Workspace, error)

// CatalogFunc discovers the plugin catalog for an expanded home directory.
type CatalogFunc func(ctx context.Context, home string) (*plugin.Catalog, error)

// Config wires a Wizard. LoadCatalog, when set, takes precedence over
// Catalog so plugins under the chosen home are offered.
type Config struct {
	Catalog     *plugin.Catalog
	LoadCatalog CatalogFunc
	Prompter    ports.Prompter
	Open        OpenFunc
	// Out receives instructions and notices. Nil discards them.
	Out    io.Writer
	Logger ports.Logger
}

// Wizard runs the setup flow.
type Wizard struct {
	catalog     *plugin.Catalog
	loadCatalog CatalogFunc
	prompter    ports.Prompter
	open        OpenFunc
	out         io.Writer
	logger      ports.Logger
}

// New creates a Wizard.
func New(cfg Config) *Wizard {
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	logger := cfg.Logger
	if logger == nil {
		logger = ports.DiscardLogger{}
	}
	return &Wizard{
		catalog:     cfg.Catalog,
		loadCatalog: cfg.LoadCatalog,
		prompter:    cfg.Prompter,
		open:        cfg.Open,
		out:         out,
		logger:      logger,
	}
}

// catalogFor returns the catalog to offer for home.
func (w *Wizard) catalogFor(ctx context.Context, home string) (*plugin.Catalog, error) {
	if w.loadCatalog == nil {
		return w.catalog, nil
	}
	catalog, err := w.loadCatalog(ctx, home)
	if err != nil {
		return nil, fmt.Errorf("discovering plugins: %w", err)
	}
	return catalog, nil
}

// Result describes a finished or cancelled run.
type Result struct {
	Cancelled bool
	Home      string
	// Enabled lists the enabled plugin names in configuration order.
	Enabled           []string
	ExtraDependencies []string
	ConfigPath        string
	SecretsLocation   string
	Stages            []Stage
}

// Run executes the full flow. An empty home prompts for one. Cancellation
// at any prompt returns a Result with Cancelled set and a nil error.
func (w *Wizard) Run(ctx context.Context, home string) (Result, error) {
	st, err := newStages()
	if err != nil {
		return Result{}, err
	}
	res, err := w.run(ctx, st, home)
	if ports.IsCancelled(err) {
		st.send(EventCancel)
		w.logger.Info(ctx, "setup cancelled", ports.F("stage", string(st.current())))
		res = Result{Cancelled: true, Home: res.Home}
		err = nil
	}
	res.Stages = st.stop()
	return res, err
}

func (w *Wizard) run(ctx context.Context, st *stages, home string) (Result, error) {
	if strings.TrimSpace(home) == "" {
		answer, err := w.prompter.Text(ctx, ports.TextPrompt{
			Message: "Where should ClawQuant store its data?",
			Default: DefaultHome,
		})
		if err != nil {
			return Result{}, err
		}
		home = answer
		if strings.TrimSpace(home) == "" {
			home = DefaultHome
		}
	}
	home = ports.ExpandPath(strings.TrimSpace(home))
	st.send(EventHomeResolved)

	catalog, err := w.catalogFor(ctx, home)
	if err != nil {
		return Result{Home: home}, err
	}
	ws, err := w.open(home)
	if err != nil {
		return Result{Home: home}, err
	}
	state, err := ws.Load(ctx, catalog)
	if err != nil {
		return Result{Home: home}, fmt.Errorf("loading existing configuration: %w", err)
	}

	enabled, err := w.selectAll(ctx, catalog, state.Enabled)
	if err != nil {
		return Result{Home: home}, err
	}
	st.send(EventSelected)

	values := make(settings.Snapshot, len(enabled))
	for _, desc := range enabled {
		if !desc.HasConfig() {
			continue
		}
		v, err := w.configure(ctx, desc, state.Values.Values(desc.Name()))
		if err != nil {
			return Result{Home: home}, err
		}
		values[desc.Name()] = v
	}
	st.send(EventConfigured)

	fmt.Fprintln(w.out)
	fmt.Fprintln(w.out, "  Writing configuration...")
	doc, secrets := settings.Build(state.Document, catalog, enabled, values)
	if err := ws.Save(ctx, doc, secrets); err != nil {
		return Result{Home: home}, err
	}
	st.send(EventPersisted)

	names := make([]string, 0, len(enabled))
	for _, d := range enabled {
		names = append(names, d.Name())
	}
	w.logger.Info(ctx, "setup complete",
		ports.F("home", home),
		ports.F("plugins", len(names)),
		ports.F("secrets", len(secrets)),
	)

	return Result{
		Home:              home,
		Enabled:           names,
		ExtraDependencies: ExtraDependencies(enabled),
		ConfigPath:        ws.ConfigPath(),
		SecretsLocation:   ws.Secrets().Location(),
	}, nil
}

// selectAll walks the categories in order and returns the enabled plugins.
func (w *Wizard) selectAll(ctx context.Context, catalog *plugin.Catalog, prior settings.EnabledSet) ([]plugin.Descriptor, error) {
	byCategory := catalog.ByCategory()
	var enabled []plugin.Descriptor
	for _, cat := range plugin.CategoryOrder {
		plugins := byCategory[cat]
		if len(plugins) == 0 {
			continue
		}
		if !IsSelectable(cat) {
			enabled = append(enabled, plugins...)
			continue
		}
		chosen, err := w.selectPlugins(ctx, cat, plugins, prior[cat])
		if err != nil {
			return nil, err
		}
		enabled = append(enabled, chosen...)
	}
	return enabled, nil
}

// selectPlugins asks for the enabled subset of one selectable category.
// Only ai_provider insists on a non-empty answer: with a prior set an empty
// answer keeps it, without one the operator is asked again.
func (w *Wizard) selectPlugins(ctx context.Context, cat plugin.Category, plugins []plugin.Descriptor, prior map[string]bool) ([]plugin.Descriptor, error) {
	var kept []plugin.Descriptor
	for _, p := range plugins {
		if prior[p.Name()] {
			kept = append(kept, p)
		}
	}
	required := cat == plugin.CategoryAIProvider
	precheckAll := cat == plugin.CategoryMarketData && len(kept) == 0

	options := make([]ports.Option, 0, len(plugins))
	for _, p := range plugins {
		options = append(options, ports.Option{
			Label:   p.ChoiceLabel(),
			Value:   p.Name(),
			Checked: prior[p.Name()] || precheckAll,
		})
	}

	instruction := "(use SPACE to select, ENTER to confirm)"
	if required && len(kept) > 0 {
		instruction += " (leave empty to keep current)"
	}

	for {
		selected, err := w.prompter.MultiSelect(ctx, "Select "+cat.Label()+":", instruction, options)
		if err != nil {
			return nil, err
		}
		if required && len(selected) == 0 {
			if len(kept) > 0 {
				return kept, nil
			}
			fmt.Fprintln(w.out, "  Please select at least one. Use SPACE to toggle selection, then ENTER.")
			continue
		}
		return pick(plugins, selected), nil
	}
}

func pick(plugins []plugin.Descriptor, names []string) []plugin.Descriptor {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []plugin.Descriptor
	for _, p := range plugins {
		if want[p.Name()] {
			out = append(out, p)
		}
	}
	return out
}

// configure runs the per-plugin step: instructions, configure-or-skip, then
// the fields. An accepted skip returns existing unchanged.
func (w *Wizard) configure(ctx context.Context, desc plugin.Descriptor, existing map[string]any) (map[string]any, error) {
	if instructions := desc.SetupInstructions(); instructions != "" {
		fmt.Fprintf(w.out, "\n  --- %s Setup ---\n", desc.DisplayName())
		for _, line := range strings.Split(instructions, "\n") {
			fmt.Fprintf(w.out, "  %s\n", line)
		}
		fmt.Fprintln(w.out)
	}

	missing := desc.MissingRequired(existing)
	canSkip := len(missing) == 0
	def := ActionConfigure
	if canSkip {
		def = ActionSkip
	}
	options := []ports.Option{
		{Label: "Configure now", Value: ActionConfigure},
		{Label: "Skip (keep current values)", Value: ActionSkip},
	}

	for {
		action, err := w.prompter.Select(ctx, desc.DisplayName()+":", options, def)
		if err != nil {
			return nil, err
		}
		if action != ActionSkip {
			break
		}
		if canSkip {
			return existing, nil
		}
		rejected := &SkipRejectedError{Plugin: desc.DisplayName(), Missing: missing}
		fmt.Fprintf(w.out, "  %s\n", rejected.Error())
	}

	return w.configureFields(ctx, desc, existing)
}

// configureFields prompts for every field in declared order. Only declared
// keys are returned; a field left without a value keeps its current one.
func (w *Wizard) configureFields(ctx context.Context, desc plugin.Descriptor, existing map[string]any) (map[string]any, error) {
	values := make(map[string]any, len(desc.ConfigFields()))
	for _, f := range desc.ConfigFields() {
		current := existing[f.Key()]
		v, ok, err := ResolveField(ctx, w.prompter, f, current)
		if err != nil {
			return nil, err
		}
		if !ok && plugin.HasValue(current) {
			v, ok = current, true
		}
		if ok {
			values[f.Key()] = v
		}
	}
	return values, nil
}

// ExtraDependencies collects the sorted, de-duplicated runtime packages of
// the enabled plugins.
func ExtraDependencies(enabled []plugin.Descriptor) []string {
	seen := map[string]bool{}
	var deps []string
	for _, d := range enabled {
		for _, dep := range d.PipDependencies() {
			if dep = strings.TrimSpace(dep); dep != "" && !seen[dep] {
				seen[dep] = true
				deps = append(deps, dep)
			}
		}
	}
	sort.Strings(deps)
	return deps
}
