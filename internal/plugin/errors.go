// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package plugin

import (
	"github.com/samber/oops"
)

// Error codes for package discovery failures.
const (
	CodeManifestParseFailure = "MANIFEST_PARSE_FAILURE"
	CodeDuplicatePackageName = "DUPLICATE_PACKAGE_NAME"
	CodePackageNotFound      = "PACKAGE_NOT_FOUND"
)

// ErrManifestParseFailure wraps the reason a single package was excluded.
func ErrManifestParseFailure(dir string, cause error) error {
	return oops.Code(CodeManifestParseFailure).
		With("dir", dir).
		Wrapf(cause, "invalid package in %s", dir)
}

// ErrDuplicatePackageName reports two package directories declaring one name.
func ErrDuplicatePackageName(name, firstDir, secondDir string) error {
	return oops.Code(CodeDuplicatePackageName).
		With("plugin", name).
		With("first_dir", firstDir).
		With("second_dir", secondDir).
		Errorf("package name %q declared by both %s and %s", name, firstDir, secondDir)
}

// ErrPackageNotFound reports a lookup for a package that was not loaded.
func ErrPackageNotFound(name string) error {
	return oops.Code(CodePackageNotFound).
		With("plugin", name).
		Errorf("package %q not found", name)
}
