package ports

import (
	"os"
	"path/filepath"
	"strings"
)

// FileSystem is the narrow set of file operations the settings layer needs.
// Keeping it an interface lets tests run the wizard against a temp dir or
// an in-memory fake.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces path atomically with data.
	WriteFile(path string, data []byte, perm os.FileMode) error
	Exists(path string) bool
	MkdirAll(path string, perm os.FileMode) error
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
