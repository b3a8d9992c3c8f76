package settings

import (
	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
)

// SecretValues is the flat env_var -> value map bound for the secret store.
type SecretValues map[string]string

// Merge copies other into s.
func (s SecretValues) Merge(other SecretValues) {
	for k, v := range other {
		s[k] = v
	}
}

// Build produces the next document from base. For every category the
// catalog knows, known plugins that are not enabled are removed and every
// enabled plugin's node is rewritten from values. Top-level keys and nodes
// of plugins outside the catalog are kept. base is not modified.
func Build(base Document, catalog *plugin.Catalog, enabled []plugin.Descriptor, values Snapshot) (Document, SecretValues) {
	doc := base.Clone()
	secrets := SecretValues{}

	keep := make(map[string]bool, len(enabled))
	for _, d := range enabled {
		keep[d.Name()] = true
	}
	for _, d := range catalog.All() {
		if keep[d.Name()] {
			continue
		}
		if section := doc.Section(d.Category()); section != nil {
			delete(section, d.Name())
		}
	}

	for _, d := range enabled {
		secrets.Merge(Apply(doc, d, values[d.Name()]))
	}
	return doc, secrets
}

// Apply writes one enabled plugin's node into doc in place and returns the
// secrets it split off.
func Apply(doc Document, desc plugin.Descriptor, values map[string]any) SecretValues {
	node, secrets := renderNode(desc, values)
	doc.ensureSection(desc.Category())[desc.Name()] = node
	return secrets
}

// renderNode converts field values to the persisted node shape: the enabled
// flag, non-secret values, a reference per stored secret, and for
// integrations the channel fields moved into a single-entry channels list.
func renderNode(desc plugin.Descriptor, values map[string]any) (map[string]any, SecretValues) {
	node := map[string]any{keyEnabled: true}
	secrets := SecretValues{}

	for k, v := range values {
		if v == nil || k == keyEnabled || k == keyChannels {
			continue
		}
		node[k] = cloneValue(v)
	}

	for _, f := range desc.ConfigFields() {
		if !f.IsSecret() {
			continue
		}
		v, present := node[f.Key()]
		if !present {
			continue
		}
		s, isString := v.(string)
		switch {
		case isString && isSecretRef(s):
			// Reference left over from a skipped plugin whose secret is
			// not in the store; keep pointing at the store.
		case isString && plugin.HasValue(s):
			secrets[f.EnvVar()] = s
			node[f.Key()] = SecretRef(f.EnvVar())
		default:
			delete(node, f.Key())
		}
	}

	if desc.Category() == plugin.CategoryIntegration {
		channel := map[string]any{}
		for _, key := range channelKeys {
			if v, ok := node[key]; ok {
				channel[key] = v
				delete(node, key)
			}
		}
		if len(channel) > 0 {
			node[keyChannels] = []any{channel}
		}
	}

	return node, secrets
}
