package secrets

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// Backend names accepted by --secrets-backend.
const (
	BackendDotenv  = "dotenv"
	BackendKeyring = "keyring"
)

// Open returns the secret store named by backend for the given home
// directory.
func Open(backend string, fs ports.FileSystem, home string) (ports.SecretStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendDotenv:
		return NewHomeDotenvStore(fs, home), nil
	case BackendKeyring:
		return NewKeyringStore(DefaultKeyringService), nil
	default:
		return nil, fmt.Errorf("unknown secrets backend %q (want %s or %s)", backend, BackendDotenv, BackendKeyring)
	}
}
