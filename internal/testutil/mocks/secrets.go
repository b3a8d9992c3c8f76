package mocks

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// SecretStore is an in-memory ports.SecretStore.
type SecretStore struct {
	mu     sync.RWMutex
	values map[string]string
	puts   int

	// GetErr and PutErr, when set, are returned by Get and Put.
	GetErr error
	PutErr error
}

// NewSecretStore creates a store seeded with initial.
func NewSecretStore(initial map[string]string) *SecretStore {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &SecretStore{values: values}
}

// Get returns the value under key.
func (s *SecretStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.GetErr != nil {
		return "", false, s.GetErr
	}
	v, ok := s.values[key]
	return v, ok, nil
}

// Put merges values into the store.
func (s *SecretStore) Put(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PutErr != nil {
		return s.PutErr
	}
	for k, v := range values {
		s.values[k] = v
	}
	s.puts++
	return nil
}

// Location names the store.
func (s *SecretStore) Location() string {
	return "memory"
}

// All returns a copy of the stored values.
func (s *SecretStore) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Puts returns the number of successful Put calls.
func (s *SecretStore) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}

var _ ports.SecretStore = (*SecretStore)(nil)
