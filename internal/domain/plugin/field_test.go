package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSecretField(t *testing.T) {
	t.Parallel()

	f, err := NewSecretField("api_key", "API Key", "OPENAI_API_KEY", Required())
	require.NoError(t, err)
	assert.Equal(t, FieldSecret, f.Type())
	assert.Equal(t, "OPENAI_API_KEY", f.EnvVar())
	assert.True(t, f.IsRequired())
	assert.True(t, f.IsSecret())

	_, err = NewSecretField("api_key", "API Key", "")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = NewSecretField("api_key", "API Key", "1BAD")
	assert.Error(t, err)
}

func TestNewChoiceField(t *testing.T) {
	t.Parallel()

	f, err := NewChoiceField("direction", "Direction", []string{"in", "out", "both"}, WithDefault("both"))
	require.NoError(t, err)
	assert.Equal(t, []string{"in", "out", "both"}, f.Choices())
	assert.Equal(t, "both", f.Default())

	_, err = NewChoiceField("direction", "Direction", nil)
	assert.Error(t, err, "choice field without choices")
}

func TestNewChoiceField_DefaultOutsideChoicesIsAccepted(t *testing.T) {
	t.Parallel()

	f, err := NewChoiceField("model", "Model", []string{"a", "b"}, WithDefault("c"))
	require.NoError(t, err)
	assert.Equal(t, "c", f.Default())
}

func TestField_Choices_ReturnsCopy(t *testing.T) {
	t.Parallel()

	f := MustField(NewChoiceField("k", "K", []string{"a", "b"}))
	got := f.Choices()
	got[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, f.Choices())
}

func TestFieldSpec_Build(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    FieldSpec
		wantErr string
		check   func(t *testing.T, f Field)
	}{
		{
			name: "missing type is string",
			spec: FieldSpec{Key: "model"},
			check: func(t *testing.T, f Field) {
				assert.Equal(t, FieldString, f.Type())
				assert.Equal(t, "model", f.Label(), "label falls back to key")
			},
		},
		{
			name: "list default from yaml sequence",
			spec: FieldSpec{Key: "symbols", Type: "list", Default: []any{"AAPL", "MSFT"}},
			check: func(t *testing.T, f Field) {
				assert.Equal(t, []string{"AAPL", "MSFT"}, f.Default())
			},
		},
		{
			name: "toml integer default",
			spec: FieldSpec{Key: "limit", Type: "number", Default: int64(5)},
			check: func(t *testing.T, f Field) {
				assert.Equal(t, 5, f.Default())
			},
		},
		{
			name: "integral float default",
			spec: FieldSpec{Key: "limit", Type: "number", Default: 5.0},
			check: func(t *testing.T, f Field) {
				assert.Equal(t, 5, f.Default())
			},
		},
		{
			name: "string field numeric default is stringified",
			spec: FieldSpec{Key: "chat_id", Default: 12345},
			check: func(t *testing.T, f Field) {
				assert.Equal(t, "12345", f.Default())
			},
		},
		{name: "unknown type", spec: FieldSpec{Key: "k", Type: "date"}, wantErr: "unknown type"},
		{name: "empty key", spec: FieldSpec{Type: "string"}, wantErr: "field key is required"},
		{name: "choices on string", spec: FieldSpec{Key: "k", Choices: []string{"a"}}, wantErr: "only allowed on choice"},
		{name: "env_var on string", spec: FieldSpec{Key: "k", EnvVar: "X"}, wantErr: "only allowed on secret"},
		{name: "bool default mismatch", spec: FieldSpec{Key: "k", Type: "boolean", Default: "yes"}, wantErr: "does not match type"},
		{name: "number default mismatch", spec: FieldSpec{Key: "k", Type: "number", Default: "five"}, wantErr: "does not match type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := tt.spec.Build()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, f)
		})
	}
}

func TestField_Normalize(t *testing.T) {
	t.Parallel()

	list := MustField(NewListField("symbols", "Symbols"))
	num := MustField(NewNumberField("limit", "Limit"))
	str := MustField(NewStringField("name", "Name"))
	boolean := MustField(NewBoolField("on", "On"))

	assert.Equal(t, []string{"a", "1"}, list.Normalize([]any{"a", 1}))
	assert.Equal(t, 3, num.Normalize(int64(3)))
	assert.Equal(t, 2.5, num.Normalize(2.5))
	assert.Equal(t, "7", str.Normalize(7))
	assert.Equal(t, true, boolean.Normalize(true))
	assert.Nil(t, list.Normalize(nil))
}

func TestField_PromptLabel(t *testing.T) {
	t.Parallel()

	plain := MustField(NewStringField("model", "Model"))
	described := MustField(NewStringField("model", "Model", WithDescription("e.g. gpt-4o")))

	assert.Equal(t, "Model", plain.PromptLabel())
	assert.Equal(t, "Model (e.g. gpt-4o)", described.PromptLabel())
}

func TestMustField_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		MustField(NewSecretField("k", "K", ""))
	})
}
