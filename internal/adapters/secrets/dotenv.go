// Package secrets provides ports.SecretStore backends: a dotenv file, the
// operating system keyring, and a process-environment overlay.
package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// DotenvFileName is the secrets file kept next to config.yaml.
const DotenvFileName = ".env"

// DotenvStore keeps secrets as KEY=value lines in a single file.
type DotenvStore struct {
	fs   ports.FileSystem
	path string
}

// NewDotenvStore creates a store backed by path.
func NewDotenvStore(fs ports.FileSystem, path string) *DotenvStore {
	return &DotenvStore{fs: fs, path: path}
}

// NewHomeDotenvStore creates a store backed by <home>/.env.
func NewHomeDotenvStore(fs ports.FileSystem, home string) *DotenvStore {
	return NewDotenvStore(fs, filepath.Join(home, DotenvFileName))
}

// Get returns the value stored under key. A missing file reads as empty.
func (s *DotenvStore) Get(_ context.Context, key string) (string, bool, error) {
	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Put merges values into the file. Keys already present but not named in
// values are kept.
func (s *DotenvStore) Put(_ context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	current, err := s.read()
	if err != nil {
		return err
	}
	for k, v := range values {
		current[k] = v
	}

	content, err := godotenv.Marshal(current)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.path, err)
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(s.path), err)
	}
	if err := s.fs.WriteFile(s.path, []byte(content+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}

// Location returns the file path.
func (s *DotenvStore) Location() string {
	return s.path
}

func (s *DotenvStore) read() (map[string]string, error) {
	if !s.fs.Exists(s.path) {
		return map[string]string{}, nil
	}
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	values, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return values, nil
}

var _ ports.SecretStore = (*DotenvStore)(nil)
