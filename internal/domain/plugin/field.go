package plugin

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// FieldType is the kind of value a configuration field holds.
type FieldType string

// Field types.
const (
	FieldString  FieldType = "string"
	FieldSecret  FieldType = "secret"
	FieldChoice  FieldType = "choice"
	FieldBoolean FieldType = "boolean"
	FieldNumber  FieldType = "number"
	FieldList    FieldType = "list"
)

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	switch t {
	case FieldString, FieldSecret, FieldChoice, FieldBoolean, FieldNumber, FieldList:
		return true
	}
	return false
}

var envVarPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Field is one configuration field of a plugin. Values are built through the
// New*Field constructors or FieldSpec.Build, which enforce the payload shape
// of each type: only choice fields carry choices and only secret fields carry
// an env var.
type Field struct {
	key         string
	label       string
	description string
	typ         FieldType
	required    bool
	def         any
	choices     []string
	envVar      string
}

// FieldOption sets an optional attribute shared by every field type.
type FieldOption func(*Field)

// WithDescription sets the help text shown next to the label.
func WithDescription(s string) FieldOption {
	return func(f *Field) { f.description = s }
}

// Required marks the field as required.
func Required() FieldOption {
	return func(f *Field) { f.required = true }
}

// WithDefault sets the default value. It must match the field type.
func WithDefault(v any) FieldOption {
	return func(f *Field) { f.def = v }
}

// NewStringField creates a free-text field.
func NewStringField(key, label string, opts ...FieldOption) (Field, error) {
	return newField(key, label, FieldString, opts)
}

// NewSecretField creates a masked field whose value lives in the secret
// store under envVar.
func NewSecretField(key, label, envVar string, opts ...FieldOption) (Field, error) {
	opts = append(opts, func(f *Field) { f.envVar = envVar })
	return newField(key, label, FieldSecret, opts)
}

// NewChoiceField creates a single-select field over choices.
func NewChoiceField(key, label string, choices []string, opts ...FieldOption) (Field, error) {
	opts = append(opts, func(f *Field) { f.choices = append([]string(nil), choices...) })
	return newField(key, label, FieldChoice, opts)
}

// NewBoolField creates a yes/no field.
func NewBoolField(key, label string, opts ...FieldOption) (Field, error) {
	return newField(key, label, FieldBoolean, opts)
}

// NewNumberField creates a decimal field.
func NewNumberField(key, label string, opts ...FieldOption) (Field, error) {
	return newField(key, label, FieldNumber, opts)
}

// NewListField creates a comma-separated list field.
func NewListField(key, label string, opts ...FieldOption) (Field, error) {
	return newField(key, label, FieldList, opts)
}

func newField(key, label string, typ FieldType, opts []FieldOption) (Field, error) {
	f := Field{key: key, label: label, typ: typ}
	for _, opt := range opts {
		opt(&f)
	}
	if f.label == "" {
		f.label = f.key
	}
	f.def = f.Normalize(f.def)
	if err := f.Validate(); err != nil {
		return Field{}, err
	}
	return f, nil
}

// MustField panics if err is non-nil. It is meant for fields declared in Go
// code, where a bad declaration is a programming error.
func MustField(f Field, err error) Field {
	if err != nil {
		panic(err)
	}
	return f
}

// Validate checks the payload shape for the field type.
func (f Field) Validate() error {
	verr := &ValidationError{}

	if strings.TrimSpace(f.key) == "" {
		verr.Add("field key is required")
	}
	if !f.typ.Valid() {
		verr.Addf("field %q: unknown type %q", f.key, f.typ)
	}

	if f.typ == FieldChoice {
		if len(f.choices) == 0 {
			verr.Addf("field %q: choice field needs at least one choice", f.key)
		}
	} else if len(f.choices) > 0 {
		verr.Addf("field %q: choices are only allowed on choice fields", f.key)
	}

	if f.typ == FieldSecret {
		if f.envVar == "" {
			verr.Addf("field %q: secret field needs env_var", f.key)
		} else if !envVarPattern.MatchString(f.envVar) {
			verr.Addf("field %q: env_var %q is not a valid variable name", f.key, f.envVar)
		}
	} else if f.envVar != "" {
		verr.Addf("field %q: env_var is only allowed on secret fields", f.key)
	}

	if f.def != nil && !f.matchesType(f.def) {
		verr.Addf("field %q: default %v does not match type %s", f.key, f.def, f.typ)
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// A choice default outside the choices list is accepted as-is.
func (f Field) matchesType(v any) bool {
	switch f.typ {
	case FieldString, FieldSecret, FieldChoice:
		_, ok := v.(string)
		return ok
	case FieldBoolean:
		_, ok := v.(bool)
		return ok
	case FieldNumber:
		switch v.(type) {
		case int, float64:
			return true
		}
		return false
	case FieldList:
		_, ok := v.([]string)
		return ok
	}
	return false
}

// Normalize converts a decoded value (YAML, TOML, or JSON) to the canonical
// Go shape for the field type: []string for lists, int or float64 for
// numbers. Values that cannot be converted are returned unchanged.
func (f Field) Normalize(v any) any {
	if v == nil {
		return nil
	}
	switch f.typ {
	case FieldString, FieldSecret, FieldChoice:
		switch s := v.(type) {
		case int, int64, uint64, float64, bool:
			return fmt.Sprint(s)
		}
	case FieldList:
		switch list := v.(type) {
		case []string:
			return append([]string(nil), list...)
		case []any:
			out := make([]string, 0, len(list))
			for _, item := range list {
				out = append(out, fmt.Sprint(item))
			}
			return out
		}
	case FieldNumber:
		switch n := v.(type) {
		case int:
			return n
		case int8:
			return int(n)
		case int16:
			return int(n)
		case int32:
			return int(n)
		case int64:
			return int(n)
		case uint:
			return int(n)
		case uint8:
			return int(n)
		case uint16:
			return int(n)
		case uint32:
			return int(n)
		case uint64:
			return int(n)
		case float32:
			return NormalizeNumber(float64(n))
		case float64:
			return NormalizeNumber(n)
		}
	}
	return v
}

// NormalizeNumber returns an int when n has no fractional part.
func NormalizeNumber(n float64) any {
	if n == math.Trunc(n) && !math.IsInf(n, 0) && math.Abs(n) < 1<<53 {
		return int(n)
	}
	return n
}

// Key returns the storage key.
func (f Field) Key() string { return f.key }

// Label returns the prompt label.
func (f Field) Label() string { return f.label }

// Description returns the help text.
func (f Field) Description() string { return f.description }

// Type returns the field type.
func (f Field) Type() FieldType { return f.typ }

// IsRequired reports whether the field must have a value.
func (f Field) IsRequired() bool { return f.required }

// Default returns the default value, or nil.
func (f Field) Default() any {
	if list, ok := f.def.([]string); ok {
		return append([]string(nil), list...)
	}
	return f.def
}

// Choices returns the choices of a choice field.
func (f Field) Choices() []string { return append([]string(nil), f.choices...) }

// EnvVar returns the secret-store key of a secret field.
func (f Field) EnvVar() string { return f.envVar }

// IsSecret reports whether the field is a secret.
func (f Field) IsSecret() bool { return f.typ == FieldSecret }

// PromptLabel joins the label and description, e.g. "Model (default model)".
func (f Field) PromptLabel() string {
	if f.description == "" {
		return f.label
	}
	return fmt.Sprintf("%s (%s)", f.label, f.description)
}

// FieldSpec is the on-disk form of a field in plugin.yaml or plugin.toml.
type FieldSpec struct {
	Key         string   `yaml:"key" toml:"key"`
	Label       string   `yaml:"label" toml:"label"`
	Description string   `yaml:"description" toml:"description"`
	Type        string   `yaml:"type" toml:"type"`
	Required    bool     `yaml:"required" toml:"required"`
	Default     any      `yaml:"default" toml:"default"`
	Choices     []string `yaml:"choices" toml:"choices"`
	EnvVar      string   `yaml:"env_var" toml:"env_var"`
}

// Build validates the spec and converts it to a Field. A missing type means
// string.
func (s FieldSpec) Build() (Field, error) {
	typ := FieldType(strings.TrimSpace(s.Type))
	if typ == "" {
		typ = FieldString
	}
	opts := []FieldOption{WithDescription(s.Description)}
	if s.Required {
		opts = append(opts, Required())
	}
	if s.Default != nil {
		opts = append(opts, WithDefault(s.Default))
	}
	opts = append(opts, func(f *Field) {
		f.choices = append([]string(nil), s.Choices...)
		f.envVar = s.EnvVar
	})
	return newField(s.Key, s.Label, typ, opts)
}
