// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

//go:build unix

package proc

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// configureProcAttr configures process attributes for Unix systems
func configureProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// killGroup sends SIGKILL to the child's process group.
func killGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return os.ErrProcessDone
	}
	err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return os.ErrProcessDone
	}
	return err
}
