package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"

	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// ConfigTag is the struct tag plugin config structs use for field keys.
const ConfigTag = "config"

// Config is the resolved value map of one enabled plugin: persisted values,
// secrets overlaid, and descriptor defaults for anything unset.
type Config map[string]any

// Decode copies the config into target, a pointer to a struct tagged with
// `config:"key"`. Strings are converted to numbers, bools and
// comma-separated slices where the target field needs it.
func (c Config) Decode(target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          ConfigTag,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("creating config decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(c)); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	return nil
}

// Factory creates the instance of one plugin. The returned value should
// implement task.Handler, TextSender or ToolProvider; capabilities are
// derived from what it implements.
type Factory func(ctx context.Context, deps Deps, cfg Config) (any, error)

// Factories maps plugin names to their factories.
type Factories map[string]Factory

// BuildInput selects what Build instantiates.
type BuildInput struct {
	Catalog *plugin.Catalog
	// Enabled lists plugin names in the order they are registered.
	Enabled []string
	// Values holds the persisted field values per plugin, secrets included.
	Values map[string]map[string]any
}

// BuildError reports a plugin that could not be instantiated.
type BuildError struct {
	Plugin string
	Err    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("plugin %s: %v", e.Plugin, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Build instantiates every enabled plugin that has a factory and returns a
// sealed registry. Plugins without a factory are configuration-only and
// skipped. A failing factory is reported and does not stop the others.
// deps.Registry is replaced by the registry being built.
func Build(ctx context.Context, in BuildInput, factories Factories, deps Deps) (*Registry, []error) {
	reg := New()
	deps.Registry = reg
	logger := deps.logger(ctx)

	var errs []error
	for _, name := range in.Enabled {
		desc, err := in.Catalog.Get(name)
		if err != nil {
			errs = append(errs, &BuildError{Plugin: name, Err: err})
			continue
		}
		factory, ok := factories[name]
		if !ok {
			logger.Debug(ctx, "plugin has no runtime component", ports.F("plugin", name))
			continue
		}

		cfg := ResolveConfig(desc, in.Values[name])
		instance, err := factory(ctx, deps, cfg)
		if err != nil {
			logger.Warn(ctx, "plugin failed to start", ports.F("plugin", name), ports.Err(err))
			errs = append(errs, &BuildError{Plugin: name, Err: err})
			continue
		}
		entry, err := reg.Register(desc, instance)
		if err != nil {
			errs = append(errs, &BuildError{Plugin: name, Err: err})
			continue
		}
		logger.Debug(ctx, "plugin registered",
			ports.F("plugin", name),
			ports.F("capabilities", capabilityNames(entry.Capabilities)),
		)
	}

	reg.Seal()
	return reg, errs
}

// ResolveConfig merges descriptor defaults under the persisted values.
// Keys not declared by the descriptor are kept.
func ResolveConfig(desc plugin.Descriptor, values map[string]any) Config {
	cfg := make(Config, len(values)+len(desc.ConfigFields()))
	for _, f := range desc.ConfigFields() {
		if d := f.Default(); d != nil {
			cfg[f.Key()] = d
		}
	}
	for k, v := range values {
		if v == nil {
			continue
		}
		cfg[k] = v
	}
	return cfg
}

func capabilityNames(caps []Capability) []string {
	out := make([]string, 0, len(caps))
	for _, c := range caps {
		out = append(out, string(c))
	}
	sort.Strings(out)
	return out
}
