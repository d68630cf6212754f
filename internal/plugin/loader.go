// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
)

// Package is a discovered, validated package. It is never mutated after
// Load returns it.
type Package struct {
	Manifest *Manifest
	Dir      string
}

// Name returns the package name.
func (p *Package) Name() string {
	return p.Manifest.Name
}

// Warning records a package excluded from loading.
type Warning struct {
	Dir string
	Err error
}

// LoadResult is the outcome of scanning all package roots.
type LoadResult struct {
	// Packages in discovery order: roots in the order given, directories
	// lexically within each root.
	Packages []*Package
	Warnings []Warning
}

// Package returns the loaded package with the given name.
func (r *LoadResult) Package(name string) (*Package, bool) {
	for _, p := range r.Packages {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Loader discovers packages under one or more root directories.
type Loader struct {
	roots       []string
	coreVersion string
	validate    bool
}

// LoaderOption configures the Loader.
type LoaderOption func(*Loader)

// WithCoreVersion sets the running core version checked against each
// manifest's core-version constraint.
func WithCoreVersion(v string) LoaderOption {
	return func(l *Loader) {
		l.coreVersion = v
	}
}

// WithSchemaValidation toggles JSON-schema validation of manifests before
// decoding. Enabled by default.
func WithSchemaValidation(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.validate = enabled
	}
}

// NewLoader creates a loader over the given roots.
func NewLoader(roots []string, opts ...LoaderOption) *Loader {
	l := &Loader{
		roots:    append([]string(nil), roots...),
		validate: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load scans every root and returns all valid packages.
//
// A package that fails to parse is excluded and reported as a warning; the
// remaining packages still load. Two packages with the same name abort the
// whole load.
func (l *Loader) Load(ctx context.Context) (*LoadResult, error) {
	result := &LoadResult{}
	seen := make(map[string]string)

	for _, root := range l.roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			if os.IsNotExist(err) {
				slog.DebugContext(ctx, "plugin root does not exist", "dir", root)
				continue
			}
			return nil, oops.With("dir", root).Wrapf(err, "read plugin root")
		}

		for _, entry := range entries {
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}

			pluginDir := filepath.Join(root, entry.Name())
			manifestPath := filepath.Join(pluginDir, ManifestFile)

			data, err := os.ReadFile(manifestPath) //nolint:gosec // manifestPath is constructed from ReadDir entries
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				l.warn(ctx, result, pluginDir, err)
				continue
			}

			pkg, err := l.parse(data, pluginDir)
			if err != nil {
				l.warn(ctx, result, pluginDir, err)
				continue
			}

			if first, dup := seen[pkg.Name()]; dup {
				return nil, ErrDuplicatePackageName(pkg.Name(), first, pluginDir)
			}
			seen[pkg.Name()] = pluginDir
			result.Packages = append(result.Packages, pkg)

			slog.DebugContext(ctx, "discovered plugin",
				"plugin", pkg.Name(),
				"version", pkg.Manifest.Version,
				"dir", pluginDir)
		}
	}

	return result, nil
}

func (l *Loader) parse(data []byte, dir string) (*Package, error) {
	if l.validate {
		if err := ValidateSchema(data); err != nil {
			return nil, err
		}
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}

	if err := manifest.CheckCoreVersion(l.coreVersion); err != nil {
		return nil, err
	}

	// A package with a build command may produce its executables on demand;
	// the preparer checks them after building.
	if manifest.Build.Command == "" {
		if err := CheckExecutables(manifest, dir); err != nil {
			return nil, err
		}
	}

	return &Package{Manifest: manifest, Dir: dir}, nil
}

// CheckExecutables ensures every binding points at an existing file inside dir.
func CheckExecutables(m *Manifest, dir string) error {
	for _, event := range m.Events() {
		for _, b := range m.Bindings(event) {
			path := filepath.Join(dir, b.Executable)
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("hooks.%s: executable %s: %w", event, b.Executable, err)
			}
			if info.IsDir() {
				return fmt.Errorf("hooks.%s: executable %s is a directory", event, b.Executable)
			}
		}
	}
	return nil
}

func (l *Loader) warn(ctx context.Context, result *LoadResult, dir string, cause error) {
	err := ErrManifestParseFailure(dir, cause)
	result.Warnings = append(result.Warnings, Warning{Dir: dir, Err: err})
	slog.WarnContext(ctx, "skipping plugin with invalid manifest",
		"dir", dir,
		"error", cause)
}
