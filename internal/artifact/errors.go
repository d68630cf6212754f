// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package artifact

import (
	"github.com/samber/oops"
)

// Error codes for readiness failures. Both are local to one package.
const (
	CodeBuildFailure       = "BUILD_FAILURE"
	CodeDependencyDegraded = "DEPENDENCY_DEGRADED"
	CodeRuntimeUnavailable = "RUNTIME_UNAVAILABLE"
)

// ErrBuildFailure reports a package whose check and build both failed.
func ErrBuildFailure(plugin, reason string, cause error) error {
	builder := oops.Code(CodeBuildFailure).
		With("plugin", plugin).
		With("reason", reason)
	if cause != nil {
		return builder.Wrapf(cause, "build failed for %s: %s", plugin, reason)
	}
	return builder.Errorf("build failed for %s: %s", plugin, reason)
}

// ErrDependencyDegraded reports a package degraded because a provider it
// requires is degraded.
func ErrDependencyDegraded(plugin, provider string) error {
	return oops.Code(CodeDependencyDegraded).
		With("plugin", plugin).
		With("provider", provider).
		Errorf("required provider %s is degraded", provider)
}

// ErrRuntimeUnavailable reports a language runtime missing from the host.
func ErrRuntimeUnavailable(plugin, language string, cause error) error {
	return oops.Code(CodeRuntimeUnavailable).
		With("plugin", plugin).
		With("language", language).
		Wrapf(cause, "runtime for %s unavailable", language)
}
