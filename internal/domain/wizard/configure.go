package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// OneResult describes a single-plugin configuration.
type OneResult struct {
	Plugin    plugin.Descriptor
	Cancelled bool
	// NoConfig is set when the plugin declares no fields; nothing was asked.
	NoConfig   bool
	Values     map[string]any
	ConfigPath string
}

// ConfigureOne configures exactly one plugin against the workspace at home
// and writes only that plugin's node. An unknown name returns a
// *plugin.NotFoundError.
func (w *Wizard) ConfigureOne(ctx context.Context, home, name string) (OneResult, error) {
	home = ports.ExpandPath(home)
	catalog, err := w.catalogFor(ctx, home)
	if err != nil {
		return OneResult{}, err
	}
	desc, err := catalog.Get(name)
	if err != nil {
		return OneResult{}, err
	}
	if !desc.HasConfig() {
		return OneResult{Plugin: desc, NoConfig: true}, nil
	}

	ws, err := w.open(home)
	if err != nil {
		return OneResult{Plugin: desc}, err
	}
	state, err := ws.Load(ctx, catalog)
	if err != nil {
		return OneResult{Plugin: desc}, fmt.Errorf("loading existing configuration: %w", err)
	}

	values, err := w.configure(ctx, desc, state.Values.Values(desc.Name()))
	if ports.IsCancelled(err) {
		return OneResult{Plugin: desc, Cancelled: true}, nil
	}
	if err != nil {
		return OneResult{Plugin: desc}, err
	}

	if err := ws.UpdatePlugin(ctx, desc, values); err != nil {
		return OneResult{Plugin: desc}, err
	}
	w.logger.Info(ctx, "plugin configured", ports.F("plugin", desc.Name()))
	return OneResult{Plugin: desc, Values: values, ConfigPath: ws.ConfigPath()}, nil
}

// SummaryLine is one "key: value" line of a configuration summary.
type SummaryLine struct {
	Key   string
	Value string
}

func (l SummaryLine) String() string { return l.Key + ": " + l.Value }

// Summary lists values in declared field order with secrets masked.
// Fields without a value are left out.
func Summary(desc plugin.Descriptor, values map[string]any) []SummaryLine {
	var lines []SummaryLine
	for _, f := range desc.ConfigFields() {
		v, ok := values[f.Key()]
		if !ok || v == nil {
			continue
		}
		display := formatScalar(v)
		switch {
		case f.IsSecret():
			display = MaskedValue
		case f.Type() == plugin.FieldList:
			display = "[" + strings.Join(ParseList(formatList(v)), ", ") + "]"
		}
		lines = append(lines, SummaryLine{Key: f.Key(), Value: display})
	}
	return lines
}
