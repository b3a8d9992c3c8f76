package plugin

import (
	"errors"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/felixgeelhaar/clawquant/internal/validation"
)

// Descriptor is the immutable metadata of one discoverable plugin. Accessors
// return copies so callers cannot mutate a catalog entry.
type Descriptor struct {
	name              string
	displayName       string
	description       string
	category          Category
	version           string
	protocols         []string
	fields            []Field
	dependencies      []string
	setupInstructions string
	source            string
}

// Name returns the unique plugin name.
func (d Descriptor) Name() string { return d.name }

// DisplayName returns the presentation name. It falls back to Name.
func (d Descriptor) DisplayName() string { return d.displayName }

// Description returns the one-line description.
func (d Descriptor) Description() string { return d.description }

// Category returns the plugin category.
func (d Descriptor) Category() Category { return d.category }

// Version returns the declared semantic version, or "".
func (d Descriptor) Version() string { return d.version }

// Protocols returns the declared capability tags.
func (d Descriptor) Protocols() []string { return append([]string(nil), d.protocols...) }

// ConfigFields returns the configuration schema in declared order.
func (d Descriptor) ConfigFields() []Field { return append([]Field(nil), d.fields...) }

// Field looks up a config field by key.
func (d Descriptor) Field(key string) (Field, bool) {
	for _, f := range d.fields {
		if f.key == key {
			return f, true
		}
	}
	return Field{}, false
}

// HasConfig reports whether the plugin declares any configuration fields.
// Plugins without fields are enabled without prompting.
func (d Descriptor) HasConfig() bool { return len(d.fields) > 0 }

// PipDependencies returns the extra runtime packages the plugin needs.
func (d Descriptor) PipDependencies() []string { return append([]string(nil), d.dependencies...) }

// SetupInstructions returns the free text shown before configuring.
func (d Descriptor) SetupInstructions() string { return d.setupInstructions }

// Source returns where the descriptor was loaded from.
func (d Descriptor) Source() string { return d.source }

// ChoiceLabel is the line shown for the plugin in a selection list.
func (d Descriptor) ChoiceLabel() string {
	if d.description == "" {
		return d.displayName
	}
	return d.displayName + " - " + d.description
}

// DescriptorSpec is the on-disk form of plugin.yaml or plugin.toml.
type DescriptorSpec struct {
	Name              string      `yaml:"name" toml:"name"`
	DisplayName       string      `yaml:"display_name" toml:"display_name"`
	Description       string      `yaml:"description" toml:"description"`
	Category          string      `yaml:"category" toml:"category"`
	Version           string      `yaml:"version" toml:"version"`
	Protocols         []string    `yaml:"protocols" toml:"protocols"`
	ConfigFields      []FieldSpec `yaml:"config_fields" toml:"config_fields"`
	PipDependencies   []string    `yaml:"pip_dependencies" toml:"pip_dependencies"`
	SetupInstructions string      `yaml:"setup_instructions" toml:"setup_instructions"`
}

// NewDescriptor validates spec and builds a Descriptor. source records the
// origin for error messages and may be empty.
func NewDescriptor(spec DescriptorSpec, source string) (Descriptor, error) {
	verr := &ValidationError{}

	name := strings.TrimSpace(spec.Name)
	if err := validation.ValidateName(name); err != nil {
		if errors.Is(err, validation.ErrEmptyInput) {
			verr.Add("name is required")
		} else {
			verr.Add(err.Error())
		}
	}

	category, err := ParseCategory(spec.Category)
	if err != nil {
		return Descriptor{}, err
	}

	version := strings.TrimSpace(spec.Version)
	if version != "" && !semver.IsValid("v"+strings.TrimPrefix(version, "v")) {
		verr.Addf("version %q is not a valid semantic version", version)
	}

	fields := make([]Field, 0, len(spec.ConfigFields))
	seen := make(map[string]bool, len(spec.ConfigFields))
	for i, fs := range spec.ConfigFields {
		f, err := fs.Build()
		if err != nil {
			verr.Addf("config_fields[%d]: %v", i, err)
			continue
		}
		if seen[f.key] {
			verr.Addf("config_fields[%d]: duplicate key %q", i, f.key)
			continue
		}
		seen[f.key] = true
		fields = append(fields, f)
	}

	protocols := make([]string, 0, len(spec.Protocols))
	for _, p := range spec.Protocols {
		if p = strings.TrimSpace(p); p != "" {
			protocols = append(protocols, p)
		}
	}

	deps := make([]string, 0, len(spec.PipDependencies))
	for _, dep := range spec.PipDependencies {
		dep = strings.TrimSpace(dep)
		if err := validation.ValidatePipPackage(dep); err != nil {
			verr.Addf("pip_dependencies: %v", err)
			continue
		}
		deps = append(deps, dep)
	}

	if verr.HasErrors() {
		return Descriptor{}, verr
	}

	displayName := strings.TrimSpace(spec.DisplayName)
	if displayName == "" {
		displayName = name
	}

	return Descriptor{
		name:              name,
		displayName:       displayName,
		description:       strings.TrimSpace(spec.Description),
		category:          category,
		version:           version,
		protocols:         protocols,
		fields:            fields,
		dependencies:      deps,
		setupInstructions: strings.TrimSpace(spec.SetupInstructions),
		source:            source,
	}, nil
}
