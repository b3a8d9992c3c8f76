// Package app provides the main application logic for clawquant.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/clawquant/internal/adapters/filesystem"
	"github.com/felixgeelhaar/clawquant/internal/adapters/secrets"
	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
	"github.com/felixgeelhaar/clawquant/internal/domain/registry"
	"github.com/felixgeelhaar/clawquant/internal/domain/settings"
	"github.com/felixgeelhaar/clawquant/internal/domain/wizard"
	"github.com/felixgeelhaar/clawquant/internal/plugins"
	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// ClawQuant is the main application orchestrator.
type ClawQuant struct {
	fs         ports.FileSystem
	logger     ports.Logger
	metrics    ports.TaskMetrics
	httpClient *http.Client
	out        io.Writer
	backend    string
	store      ports.SecretStore
	factories  registry.Factories
}

// New creates a new ClawQuant application writing user-facing output to out.
func New(out io.Writer) *ClawQuant {
	if out == nil {
		out = io.Discard
	}
	return &ClawQuant{
		fs:        filesystem.NewRealFileSystem(),
		logger:    ports.DiscardLogger{},
		metrics:   ports.NopMetrics{},
		out:       out,
		backend:   secrets.BackendDotenv,
		factories: plugins.Factories(),
	}
}

// WithLogger sets the logger handed to the wizard and to plugins.
func (c *ClawQuant) WithLogger(l ports.Logger) *ClawQuant {
	if l != nil {
		c.logger = l
	}
	return c
}

// WithMetrics sets the task metrics sink.
func (c *ClawQuant) WithMetrics(m ports.TaskMetrics) *ClawQuant {
	if m != nil {
		c.metrics = m
	}
	return c
}

// WithFileSystem sets the file system used for settings.
func (c *ClawQuant) WithFileSystem(fs ports.FileSystem) *ClawQuant {
	if fs != nil {
		c.fs = fs
	}
	return c
}

// WithHTTPClient sets the client plugins use for outbound calls.
func (c *ClawQuant) WithHTTPClient(client *http.Client) *ClawQuant {
	c.httpClient = client
	return c
}

// WithSecretsBackend selects the secret backend by name (dotenv or keyring).
func (c *ClawQuant) WithSecretsBackend(backend string) *ClawQuant {
	c.backend = backend
	return c
}

// WithSecretStore replaces the backend lookup with a fixed store.
func (c *ClawQuant) WithSecretStore(store ports.SecretStore) *ClawQuant {
	c.store = store
	return c
}

// WithFactories replaces the built-in plugin factories.
func (c *ClawQuant) WithFactories(f registry.Factories) *ClawQuant {
	c.factories = f
	return c
}

// Logger returns the configured logger.
func (c *ClawQuant) Logger() ports.Logger { return c.logger }

// Workspace opens the settings workspace under home. Environment variables
// take precedence over stored secrets when reading.
func (c *ClawQuant) Workspace(home string) (*settings.Workspace, error) {
	store, err := c.secretStore(home)
	if err != nil {
		return nil, err
	}
	return settings.NewWorkspace(home, c.fs, secrets.NewEnvOverlay(store)), nil
}

// SetupWorkspace opens the workspace the wizard edits. It reads the secret
// store alone, so values exported in the shell are never written back.
func (c *ClawQuant) SetupWorkspace(home string) (*settings.Workspace, error) {
	store, err := c.secretStore(home)
	if err != nil {
		return nil, err
	}
	return settings.NewWorkspace(home, c.fs, store), nil
}

func (c *ClawQuant) secretStore(home string) (ports.SecretStore, error) {
	if c.store != nil {
		return c.store, nil
	}
	return secrets.Open(c.backend, c.fs, home)
}

// Catalog discovers the built-in descriptors and those under
// <home>/plugins. Malformed descriptors are logged and left out.
func (c *ClawQuant) Catalog(ctx context.Context, home string) (*plugin.Catalog, error) {
	return DiscoverCatalog(ctx, filepath.Join(home, settings.PluginsDirName), c.logger)
}

// DiscoverCatalog builds the catalog from the embedded descriptors and
// pluginsDir. Built-in plugins win on name clashes.
func DiscoverCatalog(ctx context.Context, pluginsDir string, logger ports.Logger) (*plugin.Catalog, error) {
	if logger == nil {
		logger = ports.DiscardLogger{}
	}
	sources := []plugin.Source{plugins.Builtin()}
	if pluginsDir != "" {
		sources = append(sources, plugin.Source{Name: pluginsDir, FS: os.DirFS(pluginsDir)})
	}

	result, err := plugin.NewDiscoverer(sources...).Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovering plugins: %w", err)
	}
	for _, derr := range result.Errors {
		logger.Warn(ctx, "skipping plugin descriptor",
			ports.F("path", derr.Path),
			ports.Err(derr.Err),
		)
	}
	logger.Debug(ctx, "plugins discovered", ports.F("count", result.Catalog.Len()))
	return result.Catalog, nil
}

// Wizard creates the setup wizard. The catalog is discovered once the
// home directory is known.
func (c *ClawQuant) Wizard(prompter ports.Prompter) *wizard.Wizard {
	return wizard.New(wizard.Config{
		LoadCatalog: c.Catalog,
		Prompter:    prompter,
		Open:        c.SetupWorkspace,
		Out:         c.out,
		Logger:      c.logger,
	})
}

// Runtime loads the settings under home and starts every enabled plugin.
// Plugins that fail to start are returned alongside a usable runtime.
func (c *ClawQuant) Runtime(ctx context.Context, home string) (*Runtime, []error, error) {
	catalog, err := c.Catalog(ctx, home)
	if err != nil {
		return nil, nil, err
	}
	ws, err := c.Workspace(home)
	if err != nil {
		return nil, nil, err
	}
	state, err := ws.Load(ctx, catalog)
	if err != nil {
		return nil, nil, err
	}

	deps := registry.Deps{
		Logger:     c.logger,
		Metrics:    c.metrics,
		HTTPClient: c.httpClient,
		Out:        c.out,
	}
	reg, errs := registry.Build(ctx, registry.BuildInput{
		Catalog: catalog,
		Enabled: enabledNames(state.Enabled),
		Values:  state.Values,
	}, c.factories, deps)

	c.logger.Info(ctx, "runtime started",
		ports.F("home", home),
		ports.F("plugins", len(reg.Entries())),
		ports.F("failed", len(errs)),
	)
	return NewRuntime(reg, c.logger, c.metrics), errs, nil
}
