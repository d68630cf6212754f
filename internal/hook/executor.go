// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package hook

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/samber/oops"

	"github.com/pais-dev/pais/internal/artifact"
	"github.com/pais-dev/pais/internal/plugin"
	"github.com/pais-dev/pais/internal/proc"
)

// Environment variables set for every handler process.
const (
	EnvEvent     = "PAIS_EVENT"
	EnvPlugin    = "PAIS_PLUGIN"
	EnvPluginDir = "PAIS_PLUGIN_DIR"
)

// DefaultMaxOutput bounds the stdout and stderr kept per handler.
const DefaultMaxOutput = 64 * 1024

// Invocation describes one handler to run.
type Invocation struct {
	Event   plugin.Event
	Package *plugin.Package
	Binding plugin.Binding
	Payload []byte
	Timeout time.Duration
}

// Execution is what a handler process produced. ExitCode is meaningful only
// when Execute returned no error.
type Execution struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Executor runs handler processes.
type Executor interface {
	// Execute returns an error when the handler could not run to
	// completion: HANDLER_SPAWN_FAILURE or HANDLER_TIMEOUT. Any exit code,
	// including non-zero ones, is reported through Execution.
	Execute(ctx context.Context, inv Invocation) (Execution, error)
}

// ProcessExecutor runs each handler as a child process in its own process
// group, feeding the payload on stdin.
type ProcessExecutor struct {
	adapters  *artifact.Adapters
	maxOutput int
	env       []string
}

// ProcessExecutorOption configures a ProcessExecutor.
type ProcessExecutorOption func(*ProcessExecutor)

// WithMaxOutput bounds captured stdout and stderr per stream.
func WithMaxOutput(n int) ProcessExecutorOption {
	return func(e *ProcessExecutor) {
		if n > 0 {
			e.maxOutput = n
		}
	}
}

// WithEnv adds KEY=VALUE entries to every handler environment.
func WithEnv(env ...string) ProcessExecutorOption {
	return func(e *ProcessExecutor) {
		e.env = append(e.env, env...)
	}
}

// NewProcessExecutor creates an executor resolving commands with adapters.
func NewProcessExecutor(adapters *artifact.Adapters, opts ...ProcessExecutorOption) *ProcessExecutor {
	e := &ProcessExecutor{
		adapters:  adapters,
		maxOutput: DefaultMaxOutput,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute implements Executor.
func (e *ProcessExecutor) Execute(ctx context.Context, inv Invocation) (Execution, error) {
	pkg := inv.Package
	name := pkg.Name()
	argv := e.adapters.For(pkg.Manifest.Language).Command(pkg.Dir, inv.Binding.Executable)

	runCtx := ctx
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	stdout := proc.NewLimitedBuffer(e.maxOutput)
	stderr := proc.NewLimitedBuffer(e.maxOutput)

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...) //nolint:gosec // argv comes from an installed package manifest
	cmd.Dir = pkg.Dir
	cmd.Stdin = bytes.NewReader(inv.Payload)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Env = append(cmd.Environ(), e.env...)
	cmd.Env = append(cmd.Env,
		EnvEvent+"="+string(inv.Event),
		EnvPlugin+"="+name,
		EnvPluginDir+"="+pkg.Dir,
	)
	proc.Isolate(cmd)

	start := time.Now()
	err := cmd.Run()
	out := Execution{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		return out, ErrHandlerTimeout(name, inv.Binding.Executable, inv.Timeout)
	case ctx.Err() != nil:
		return out, oops.
			With("plugin", name).
			With("executable", inv.Binding.Executable).
			Wrapf(ctx.Err(), "handler interrupted")
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return out, nil
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	default:
		return out, ErrHandlerSpawnFailure(name, inv.Binding.Executable, err)
	}
}
