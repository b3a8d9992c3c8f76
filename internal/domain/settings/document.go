// Package settings reads and writes the persisted configuration: the plain
// config.yaml document and the secret store next to it.
package settings

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
)

// ConfigFileName is the plain configuration file under the home directory.
const ConfigFileName = "config.yaml"

// Keys with meaning on every plugin node.
const (
	keyEnabled  = "enabled"
	keyChannels = "channels"
)

// channelKeys are the integration fields folded into the channels list.
var channelKeys = []string{"chat_id", "direction"}

// Document is the decoded config.yaml tree.
type Document map[string]any

// ParseDocument decodes config.yaml content. Empty input yields an empty
// document. Nested nodes are plain map[string]any.
func ParseDocument(data []byte) (Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFileName, err)
	}
	if raw == nil {
		return Document{}, nil
	}
	return Document(raw), nil
}

// Marshal encodes the document as YAML. Map keys are emitted sorted, so
// equal documents produce identical bytes.
func (d Document) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(map[string]any(d))
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", ConfigFileName, err)
	}
	return data, nil
}

// Namespace returns the key path under which plugins of a category live,
// e.g. ["ai", "providers"].
func Namespace(cat plugin.Category) []string {
	switch cat {
	case plugin.CategoryAIProvider:
		return []string{"ai", "providers"}
	case plugin.CategoryMarketData:
		return []string{"market_data", "providers"}
	case plugin.CategoryIntegration:
		return []string{"integrations"}
	case plugin.CategoryRiskRule:
		return []string{"risk", "rules"}
	case plugin.CategoryTaskHandler:
		return []string{"scheduler", "handlers"}
	case plugin.CategoryAgent:
		return []string{"ai", "agents"}
	}
	return nil
}

// Section returns the map holding a category's plugin nodes, or nil.
func (d Document) Section(cat plugin.Category) map[string]any {
	path := Namespace(cat)
	if len(path) == 0 {
		return nil
	}
	node := map[string]any(d)
	for _, key := range path {
		next, ok := asMap(node[key])
		if !ok {
			return nil
		}
		node = next
	}
	return node
}

// ensureSection returns the category map, creating intermediate maps.
func (d Document) ensureSection(cat plugin.Category) map[string]any {
	node := map[string]any(d)
	for _, key := range Namespace(cat) {
		next, ok := asMap(node[key])
		if !ok {
			next = map[string]any{}
		}
		node[key] = next
		node = next
	}
	return node
}

// Node returns the raw node of one plugin, or nil.
func (d Document) Node(cat plugin.Category, name string) map[string]any {
	section := d.Section(cat)
	if section == nil {
		return nil
	}
	node, _ := asMap(section[name])
	return node
}

// Clone deep-copies the maps and slices of the document.
func (d Document) Clone() Document {
	if d == nil {
		return Document{}
	}
	return Document(cloneMap(d))
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	}
	return v
}

// asMap accepts both map[string]any and the map[any]any some decoders
// produce for non-string keys.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}
