// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package plugin_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pais-dev/pais/internal/plugin"
	"github.com/pais-dev/pais/pkg/errutil"
)

func writeManifest(t *testing.T, root, dir, manifest string, executables ...string) string {
	t.Helper()
	path := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(path, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(path, plugin.ManifestFile), []byte(manifest), 0o600))
	for _, exe := range executables {
		full := filepath.Join(path, exe)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte("#!/bin/sh\n"), 0o700)) //nolint:gosec // handler must be executable
	}
	return path
}

func names(pkgs []*plugin.Package) []string {
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.Name())
	}
	return out
}

func TestLoader_DiscoveryOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeManifest(t, first, "zeta", "name: zeta\nversion: 1.0.0\n")
	writeManifest(t, first, "alpha", "name: alpha\nversion: 1.0.0\n")
	writeManifest(t, second, "beta", "name: beta\nversion: 1.0.0\n")

	result, err := plugin.NewLoader([]string{first, second}).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta", "beta"}, names(result.Packages))
	assert.Empty(t, result.Warnings)
}

func TestLoader_SkipsNonPackages(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "real", "name: real\nversion: 1.0.0\n")
	writeManifest(t, root, ".hidden", "name: hidden\nversion: 1.0.0\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "no-manifest"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.yaml"), []byte("name: stray\n"), 0o600))

	result, err := plugin.NewLoader([]string{root}).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"real"}, names(result.Packages))
}

func TestLoader_MissingRootIsIgnored(t *testing.T) {
	result, err := plugin.NewLoader([]string{filepath.Join(t.TempDir(), "absent")}).Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, result.Packages)
}

func TestLoader_InvalidManifestIsAWarning(t *testing.T) {
	root := t.TempDir()
	broken := writeManifest(t, root, "broken", "name: broken\n")
	writeManifest(t, root, "good", "name: good\nversion: 1.0.0\n")

	result, err := plugin.NewLoader([]string{root}).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, names(result.Packages))
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, broken, result.Warnings[0].Dir)
	errutil.AssertErrorCode(t, result.Warnings[0].Err, plugin.CodeManifestParseFailure)
}

func TestLoader_MissingExecutableIsAWarning(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "guard", "name: guard\nversion: 1.0.0\nhooks:\n  PreToolUse:\n    - executable: bin/guard\n")
	writeManifest(t, root, "ok", "name: ok\nversion: 1.0.0\nhooks:\n  Stop:\n    - executable: bin/stop\n", "bin/stop")

	result, err := plugin.NewLoader([]string{root}).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, names(result.Packages))
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Err.Error(), "bin/guard")
}

func TestLoader_BuildableExecutableMayBeMissing(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "compiled", "name: compiled\nversion: 1.0.0\nhooks:\n  PreToolUse:\n    - executable: bin/h\nbuild:\n  check: test -x bin/h\n  command: make\n")

	result, err := plugin.NewLoader([]string{root}).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"compiled"}, names(result.Packages))
	assert.Empty(t, result.Warnings)
	assert.Error(t, plugin.CheckExecutables(result.Packages[0].Manifest, result.Packages[0].Dir))
}

func TestLoader_LiteralMatcherWithGlobSyntax(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "reader", "name: reader\nversion: 1.0.0\nhooks:\n  PreToolUse:\n    - executable: h.sh\n      matcher: \"Read[\"\n", "h.sh")

	result, err := plugin.NewLoader([]string{root}).Load(context.Background())

	require.NoError(t, err)
	require.Len(t, result.Packages, 1)
	b := result.Packages[0].Manifest.Bindings(plugin.EventPreToolUse)[0]
	assert.True(t, b.Matches("Read["))
	assert.False(t, b.Matches("Read"))
}

func TestLoader_DuplicateNameIsFatal(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeManifest(t, first, "guard", "name: guard\nversion: 1.0.0\n")
	writeManifest(t, second, "guard-fork", "name: guard\nversion: 2.0.0\n")

	_, err := plugin.NewLoader([]string{first, second}).Load(context.Background())

	errutil.AssertErrorCode(t, err, plugin.CodeDuplicatePackageName)
	errutil.AssertErrorContext(t, err, "plugin", "guard")
}

func TestLoader_CoreVersion(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "future", "name: future\nversion: 1.0.0\ncore-version: \">=2.0.0\"\n")
	writeManifest(t, root, "current", "name: current\nversion: 1.0.0\ncore-version: \">=0.1.0\"\n")

	result, err := plugin.NewLoader([]string{root}, plugin.WithCoreVersion("0.4.0")).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"current"}, names(result.Packages))
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Err.Error(), "requires core")
}

func TestLoader_SchemaValidation(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "extra", "name: extra\nversion: 1.0.0\nunknown-key: true\n")

	lenient, err := plugin.NewLoader([]string{root}, plugin.WithSchemaValidation(false)).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, lenient.Packages, 1)

	strict, err := plugin.NewLoader([]string{root}).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, strict.Packages)
	require.Len(t, strict.Warnings, 1)
}

func TestLoadResult_Package(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "guard", "name: guard\nversion: 1.0.0\n")

	result, err := plugin.NewLoader([]string{root}).Load(context.Background())
	require.NoError(t, err)

	pkg, ok := result.Package("guard")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "guard"), pkg.Dir)

	_, ok = result.Package("missing")
	assert.False(t, ok)
}
