package settings

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// Snapshot maps plugin name to its previously persisted field values.
// Secret fields carry the resolved secret, not the reference.
type Snapshot map[string]map[string]any

// Values returns a copy of one plugin's values, never nil.
func (s Snapshot) Values(name string) map[string]any {
	out := make(map[string]any, len(s[name]))
	for k, v := range s[name] {
		out[k] = cloneValue(v)
	}
	return out
}

// EnabledSet holds, per category, the plugin names currently enabled.
type EnabledSet map[plugin.Category]map[string]bool

// Names returns the enabled names of one category, sorted.
func (e EnabledSet) Names(cat plugin.Category) []string {
	names := make([]string, 0, len(e[cat]))
	for n := range e[cat] {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is enabled in cat.
func (e EnabledSet) Has(cat plugin.Category, name string) bool {
	return e[cat][name]
}

// Empty reports whether nothing is enabled in cat.
func (e EnabledSet) Empty(cat plugin.Category) bool {
	return len(e[cat]) == 0
}

var secretRefPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// SecretRef is the placeholder recorded in config.yaml for a secret field.
func SecretRef(envVar string) string {
	return "${" + envVar + "}"
}

// isSecretRef reports whether v is a SecretRef placeholder.
func isSecretRef(v any) bool {
	s, ok := v.(string)
	return ok && secretRefPattern.MatchString(s)
}

// LoadExistingValues reconstructs the field values of every catalog plugin
// from doc, overlaying secret values from secrets. Plugins with no node
// get an empty map.
func LoadExistingValues(ctx context.Context, doc Document, secrets ports.SecretStore, catalog *plugin.Catalog) (Snapshot, error) {
	out := make(Snapshot, catalog.Len())
	for _, desc := range catalog.All() {
		values := readPluginValues(doc, desc)

		for _, f := range desc.ConfigFields() {
			if !f.IsSecret() {
				continue
			}
			secret, ok, err := secrets.Get(ctx, f.EnvVar())
			if err != nil {
				return nil, fmt.Errorf("reading secret %s for %s: %w", f.EnvVar(), desc.Name(), err)
			}
			switch {
			case ok && secret != "":
				values[f.Key()] = secret
			case isSecretRef(values[f.Key()]):
				delete(values, f.Key())
			}
		}

		out[desc.Name()] = values
	}
	return out, nil
}

// readPluginValues extracts one plugin's node with channel fields folded
// back in and bookkeeping keys removed.
func readPluginValues(doc Document, desc plugin.Descriptor) map[string]any {
	node := doc.Node(desc.Category(), desc.Name())
	values := make(map[string]any, len(node))
	for k, v := range node {
		values[k] = cloneValue(v)
	}

	if desc.Category() == plugin.CategoryIntegration {
		if channels, ok := values[keyChannels].([]any); ok && len(channels) > 0 {
			if first, ok := asMap(channels[0]); ok {
				for _, key := range channelKeys {
					if v, ok := first[key]; ok {
						values[key] = v
					}
				}
			}
		}
	}

	delete(values, keyEnabled)
	delete(values, keyChannels)

	for _, f := range desc.ConfigFields() {
		if v, ok := values[f.Key()]; ok {
			values[f.Key()] = f.Normalize(v)
		}
	}
	return values
}

// LoadEnabled derives the enabled set of every category. A node whose
// enabled flag is absent, or which is not a mapping, counts as enabled.
func LoadEnabled(doc Document) EnabledSet {
	out := make(EnabledSet, len(plugin.CategoryOrder))
	for _, cat := range plugin.CategoryOrder {
		names := make(map[string]bool)
		for name, raw := range doc.Section(cat) {
			node, ok := asMap(raw)
			if !ok {
				names[name] = true
				continue
			}
			if enabled, ok := node[keyEnabled].(bool); ok && !enabled {
				continue
			}
			names[name] = true
		}
		out[cat] = names
	}
	return out
}
