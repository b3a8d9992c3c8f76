package secrets

import (
	"context"
	"os"
	"sort"

	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// EnvOverlay answers Get from the process environment first and falls back
// to the wrapped store. Put and Location go to the wrapped store.
//
// The runtime uses it so an exported SERPER_API_KEY wins over the value
// written by setup. The setup wizard reads the wrapped store directly.
type EnvOverlay struct {
	inner  ports.SecretStore
	lookup func(string) (string, bool)
}

// NewEnvOverlay wraps inner.
func NewEnvOverlay(inner ports.SecretStore) *EnvOverlay {
	return &EnvOverlay{inner: inner, lookup: os.LookupEnv}
}

// Get returns a non-empty environment value for key, else the inner value.
func (s *EnvOverlay) Get(ctx context.Context, key string) (string, bool, error) {
	if v, ok := s.lookup(key); ok && v != "" {
		return v, true, nil
	}
	return s.inner.Get(ctx, key)
}

// Put delegates to the wrapped store.
func (s *EnvOverlay) Put(ctx context.Context, values map[string]string) error {
	return s.inner.Put(ctx, values)
}

// Location delegates to the wrapped store.
func (s *EnvOverlay) Location() string {
	return s.inner.Location()
}

var _ ports.SecretStore = (*EnvOverlay)(nil)

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
