// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package main

import (
	"time"

	"github.com/pais-dev/pais/internal/artifact"
	"github.com/pais-dev/pais/internal/hook"
)

// Deps contains injectable dependencies for the CLI.
// All fields with nil values will use their default implementations.
type Deps struct {
	// RunnerFactory creates the runner for check and build commands.
	// Default: artifact.NewShellRunner
	RunnerFactory func(timeout time.Duration) artifact.Runner

	// ExecutorFactory creates the handler executor.
	// Default: hook.NewProcessExecutor
	ExecutorFactory func(adapters *artifact.Adapters) hook.Executor

	// Adapters returns the language adapters.
	// Default: artifact.DefaultAdapters
	Adapters func() *artifact.Adapters

	// CoreVersion is checked against each manifest's core-version.
	// Default: the build version
	CoreVersion string
}

func (d *Deps) withDefaults() *Deps {
	out := Deps{}
	if d != nil {
		out = *d
	}
	if out.RunnerFactory == nil {
		out.RunnerFactory = func(timeout time.Duration) artifact.Runner {
			return artifact.NewShellRunner(timeout)
		}
	}
	if out.ExecutorFactory == nil {
		out.ExecutorFactory = func(adapters *artifact.Adapters) hook.Executor {
			return hook.NewProcessExecutor(adapters)
		}
	}
	if out.Adapters == nil {
		out.Adapters = artifact.DefaultAdapters
	}
	if out.CoreVersion == "" {
		out.CoreVersion = version
	}
	return &out
}
