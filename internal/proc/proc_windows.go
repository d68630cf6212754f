// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

//go:build windows

package proc

import (
	"os"
	"os/exec"
	"syscall"
)

// configureProcAttr configures process attributes for Windows systems
func configureProcAttr(cmd *exec.Cmd) {
	// On Windows, we use CREATE_NEW_PROCESS_GROUP instead of Setpgid
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

// killGroup terminates the child. Windows has no process-group signal, so
// descendants that outlive the child are not reached.
func killGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return os.ErrProcessDone
	}
	return cmd.Process.Kill()
}
