package ports

import "context"

// SecretStore is the single boundary between secret-typed configuration
// fields and wherever their values actually live. Keys are the env_var names
// declared by secret fields.
type SecretStore interface {
	// Get returns the value stored under key. Missing keys report ok=false
	// without an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Put stores every entry of values, leaving keys not mentioned untouched.
	Put(ctx context.Context, values map[string]string) error

	// Location describes where secrets are kept, for user-facing summaries.
	Location() string
}
