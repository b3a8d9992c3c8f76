// Package plugins bundles the built-in plugin descriptors and the runtime
// factories of the plugins that have behavior. A directory holding a
// plugin.yaml or plugin.toml is all it takes to add a descriptor.
package plugins

import (
	"embed"

	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
	"github.com/felixgeelhaar/clawquant/internal/domain/registry"
	"github.com/felixgeelhaar/clawquant/internal/plugins/console"
	"github.com/felixgeelhaar/clawquant/internal/plugins/notifications"
	"github.com/felixgeelhaar/clawquant/internal/plugins/telegram"
	"github.com/felixgeelhaar/clawquant/internal/plugins/webhook"
	"github.com/felixgeelhaar/clawquant/internal/plugins/websearch"
)

//go:embed */plugin.yaml */plugin.toml
var builtin embed.FS

// BuiltinSourceName labels built-in descriptors in errors and listings.
const BuiltinSourceName = "builtin"

// Builtin returns the discovery source for the bundled descriptors.
func Builtin() plugin.Source {
	return plugin.Source{Name: BuiltinSourceName, FS: builtin}
}

// Factories returns the runtime factories keyed by plugin name. Plugins
// missing here are configuration-only.
func Factories() registry.Factories {
	return registry.Factories{
		notifications.PluginName: notifications.Factory,
		websearch.PluginName:     websearch.Factory,
		console.PluginName:       console.Factory,
		telegram.PluginName:      telegram.Factory,
		webhook.PluginName:       webhook.Factory,
	}
}
