package settings

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// PluginsDirName is the user plugin directory under the home directory.
const PluginsDirName = "plugins"

// Workspace is one home directory: config.yaml plus a secret store.
type Workspace struct {
	home    string
	fs      ports.FileSystem
	secrets ports.SecretStore
}

// NewWorkspace binds a home directory to its file system and secret store.
func NewWorkspace(home string, fs ports.FileSystem, secrets ports.SecretStore) *Workspace {
	return &Workspace{home: home, fs: fs, secrets: secrets}
}

// Home returns the home directory.
func (w *Workspace) Home() string { return w.home }

// ConfigPath returns the path of config.yaml.
func (w *Workspace) ConfigPath() string { return filepath.Join(w.home, ConfigFileName) }

// PluginsDir returns the user plugin directory.
func (w *Workspace) PluginsDir() string { return filepath.Join(w.home, PluginsDirName) }

// Secrets returns the secret store.
func (w *Workspace) Secrets() ports.SecretStore { return w.secrets }

// LoadDocument reads config.yaml. A missing file is an empty document.
func (w *Workspace) LoadDocument() (Document, error) {
	path := w.ConfigPath()
	if !w.fs.Exists(path) {
		return Document{}, nil
	}
	data, err := w.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseDocument(data)
}

// State is everything the wizard needs from disk, read once.
type State struct {
	Document Document
	Values   Snapshot
	Enabled  EnabledSet
}

// Load reads the document and derives the value and enabled snapshots.
func (w *Workspace) Load(ctx context.Context, catalog *plugin.Catalog) (State, error) {
	doc, err := w.LoadDocument()
	if err != nil {
		return State{}, err
	}
	values, err := LoadExistingValues(ctx, doc, w.secrets, catalog)
	if err != nil {
		return State{}, err
	}
	return State{Document: doc, Values: values, Enabled: LoadEnabled(doc)}, nil
}

// Save writes secrets first, then config.yaml, so the document never
// references a secret that was not stored.
func (w *Workspace) Save(ctx context.Context, doc Document, secrets SecretValues) error {
	if err := w.fs.MkdirAll(w.home, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", w.home, err)
	}
	if len(secrets) > 0 {
		if err := w.secrets.Put(ctx, secrets); err != nil {
			return fmt.Errorf("storing secrets: %w", err)
		}
	}
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	if err := w.fs.WriteFile(w.ConfigPath(), data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", w.ConfigPath(), err)
	}
	return nil
}

// UpdatePlugin rewrites a single plugin's node, leaving the rest of the
// document as it is on disk.
func (w *Workspace) UpdatePlugin(ctx context.Context, desc plugin.Descriptor, values map[string]any) error {
	doc, err := w.LoadDocument()
	if err != nil {
		return err
	}
	secrets := Apply(doc, desc, values)
	return w.Save(ctx, doc, secrets)
}
