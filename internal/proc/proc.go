// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

// Package proc isolates child processes in their own process group so a
// timeout can terminate the child together with anything it spawned.
package proc

import (
	"os/exec"
	"time"
)

// WaitDelay bounds how long Wait keeps reading output pipes after the child
// is killed, in case a detached grandchild still holds them open.
const WaitDelay = 2 * time.Second

// Isolate configures cmd to start in a new process group and, when its
// context is done, to kill the whole group. cmd must have been created with
// exec.CommandContext.
func Isolate(cmd *exec.Cmd) {
	configureProcAttr(cmd)
	cmd.Cancel = func() error {
		return killGroup(cmd)
	}
	cmd.WaitDelay = WaitDelay
}
