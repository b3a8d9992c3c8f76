package plugin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// maxManifestSize limits descriptor file size to prevent memory exhaustion (256KB).
	maxManifestSize int64 = 256 * 1024

	// YAMLManifest and TOMLManifest are the descriptor file names discovery looks for.
	YAMLManifest = "plugin.yaml"
	TOMLManifest = "plugin.toml"
)

// Source is one tree scanned for descriptors.
type Source struct {
	// Name prefixes paths in errors, e.g. "builtin" or a directory path.
	Name string
	FS   fs.FS
}

// DiscoveryResult captures both the catalog and the descriptors that were
// excluded from it.
type DiscoveryResult struct {
	Catalog *Catalog
	Errors  []DiscoveryError
}

// HasErrors returns true if there were errors during discovery.
func (r *DiscoveryResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Discoverer finds plugin descriptors in a list of sources. Earlier sources
// take precedence when two descriptors share a name.
type Discoverer struct {
	Sources []Source
}

// NewDiscoverer creates a discoverer over sources.
func NewDiscoverer(sources ...Source) *Discoverer {
	return &Discoverer{Sources: sources}
}

// Discover walks every source for plugin.yaml and plugin.toml files at any
// depth. A source whose root does not exist is skipped. Malformed
// descriptors are reported in the result and the scan continues.
func (d *Discoverer) Discover(ctx context.Context) (*DiscoveryResult, error) {
	result := &DiscoveryResult{
		Catalog: NewCatalog(),
		Errors:  make([]DiscoveryError, 0),
	}

	for _, src := range d.Sources {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if src.FS == nil {
			continue
		}

		walkErr := fs.WalkDir(src.FS, ".", func(p string, entry fs.DirEntry, err error) error {
			if err != nil {
				if p == "." && errors.Is(err, fs.ErrNotExist) {
					return fs.SkipAll
				}
				result.Errors = append(result.Errors, DiscoveryError{Path: sourcePath(src, p), Err: err})
				if entry != nil && entry.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if entry.IsDir() {
				return nil
			}
			name := entry.Name()
			if name != YAMLManifest && name != TOMLManifest {
				return nil
			}

			desc, err := loadDescriptor(src.FS, p, sourcePath(src, p))
			if err != nil {
				result.Errors = append(result.Errors, DiscoveryError{Path: sourcePath(src, p), Err: err})
				return nil
			}
			if err := result.Catalog.add(desc); err != nil {
				result.Errors = append(result.Errors, DiscoveryError{Path: sourcePath(src, p), Err: err})
			}
			return nil
		})
		if walkErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			result.Errors = append(result.Errors, DiscoveryError{Path: src.Name, Err: walkErr})
		}
	}

	return result, nil
}

func sourcePath(src Source, p string) string {
	if src.Name == "" {
		return p
	}
	return path.Join(src.Name, p)
}

// loadDescriptor reads and validates one descriptor file.
func loadDescriptor(fsys fs.FS, p, display string) (Descriptor, error) {
	info, err := fs.Stat(fsys, p)
	if err != nil {
		return Descriptor{}, fmt.Errorf("checking %s: %w", path.Base(p), err)
	}
	if info.Size() > maxManifestSize {
		return Descriptor{}, &ManifestSizeError{Size: info.Size(), Limit: maxManifestSize}
	}

	file, err := fsys.Open(p)
	if err != nil {
		return Descriptor{}, fmt.Errorf("opening %s: %w", path.Base(p), err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxManifestSize))
	if err != nil {
		return Descriptor{}, fmt.Errorf("reading %s: %w", path.Base(p), err)
	}

	spec, err := ParseDescriptor(path.Base(p), data)
	if err != nil {
		return Descriptor{}, err
	}
	return NewDescriptor(spec, display)
}

// ParseDescriptor decodes descriptor bytes. The format is chosen by file
// name: plugin.toml is TOML, anything else YAML.
func ParseDescriptor(fileName string, data []byte) (DescriptorSpec, error) {
	var spec DescriptorSpec
	if path.Ext(fileName) == ".toml" {
		if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&spec); err != nil {
			return DescriptorSpec{}, fmt.Errorf("parsing %s: %w", fileName, err)
		}
		return spec, nil
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return DescriptorSpec{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}
	return spec, nil
}
