package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// DefaultKeyringService is the keyring service name secrets are filed under.
const DefaultKeyringService = "clawquant"

// KeyringStore keeps each secret as its own entry in the operating system
// keyring, with the env_var name as the entry's user.
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a store under service. An empty service selects
// DefaultKeyringService.
func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = DefaultKeyringService
	}
	return &KeyringStore{service: service}
}

// Get returns the keyring entry for key.
func (s *KeyringStore) Get(_ context.Context, key string) (string, bool, error) {
	v, err := keyring.Get(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("keyring lookup %s/%s: %w", s.service, key, err)
	}
	return v, true, nil
}

// Put writes one keyring entry per key. It stops at the first failure.
func (s *KeyringStore) Put(_ context.Context, values map[string]string) error {
	for _, k := range sortedKeys(values) {
		if err := keyring.Set(s.service, k, values[k]); err != nil {
			return fmt.Errorf("keyring store %s/%s: %w", s.service, k, err)
		}
	}
	return nil
}

// Location names the keyring service.
func (s *KeyringStore) Location() string {
	return "system keyring (service " + s.service + ")"
}

var _ ports.SecretStore = (*KeyringStore)(nil)
