// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package hook

import (
	"time"

	"github.com/samber/oops"
)

// Error codes for handler failures. They are local to one handler and never
// abort a dispatch.
const (
	CodeHandlerTimeout      = "HANDLER_TIMEOUT"
	CodeHandlerSpawnFailure = "HANDLER_SPAWN_FAILURE"
	CodeHandlerNonZeroExit  = "HANDLER_NON_ZERO_EXIT"
	CodeUnknownEvent        = "UNKNOWN_EVENT"
)

// ErrHandlerTimeout reports a handler killed after exceeding its timeout.
func ErrHandlerTimeout(plugin, executable string, timeout time.Duration) error {
	return oops.Code(CodeHandlerTimeout).
		With("plugin", plugin).
		With("executable", executable).
		With("timeout", timeout.String()).
		Errorf("handler %s/%s timed out after %s", plugin, executable, timeout)
}

// ErrHandlerSpawnFailure reports a handler that could not be started.
func ErrHandlerSpawnFailure(plugin, executable string, cause error) error {
	return oops.Code(CodeHandlerSpawnFailure).
		With("plugin", plugin).
		With("executable", executable).
		Wrapf(cause, "start handler %s/%s", plugin, executable)
}

// ErrHandlerNonZeroExit reports a handler exiting with neither allow nor block.
func ErrHandlerNonZeroExit(plugin, executable string, code int) error {
	return oops.Code(CodeHandlerNonZeroExit).
		With("plugin", plugin).
		With("executable", executable).
		With("exit_code", code).
		Errorf("handler %s/%s exited %d", plugin, executable, code)
}

// ErrUnknownEvent reports an event name outside the catalogue.
func ErrUnknownEvent(name string) error {
	return oops.Code(CodeUnknownEvent).
		With("event", name).
		Errorf("unknown event %q", name)
}
