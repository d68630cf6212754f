// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package artifact

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/samber/oops"

	"github.com/pais-dev/pais/internal/proc"
)

// maxCommandOutput bounds the combined output kept from a check or build.
const maxCommandOutput = 16 * 1024

// CommandResult is the outcome of a check or build command that ran.
type CommandResult struct {
	ExitCode int
	Output   string
	Duration time.Duration
}

// Succeeded reports whether the command exited zero.
func (r CommandResult) Succeeded() bool {
	return r.ExitCode == 0
}

// Runner runs a shell command inside a package directory.
type Runner interface {
	// Run returns an error only when the command could not run to
	// completion (spawn failure or timeout). A non-zero exit is reported
	// through CommandResult.
	Run(ctx context.Context, dir, command string) (CommandResult, error)
}

// ShellRunner runs commands with "sh -c" in their own process group.
type ShellRunner struct {
	Timeout time.Duration
	Env     []string
}

// NewShellRunner creates a runner bounding every command by timeout.
func NewShellRunner(timeout time.Duration) *ShellRunner {
	return &ShellRunner{Timeout: timeout}
}

// Run implements Runner.
func (r *ShellRunner) Run(ctx context.Context, dir, command string) (CommandResult, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	out := proc.NewLimitedBuffer(maxCommandOutput)
	cmd := exec.CommandContext(ctx, "sh", "-c", command) //nolint:gosec // commands come from installed package manifests
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}
	proc.Isolate(cmd)

	start := time.Now()
	err := cmd.Run()
	result := CommandResult{Output: out.String(), Duration: time.Since(start)}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, oops.
			With("dir", dir).
			With("command", command).
			Wrapf(ctxErr, "command did not finish")
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	default:
		return result, oops.
			With("dir", dir).
			With("command", command).
			Wrapf(err, "start command")
	}
}
