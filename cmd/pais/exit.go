// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/pais-dev/pais/pkg/errutil"
)

// exitError carries a process exit code out of a command. When err is nil
// the command has already reported everything it needs to.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return "exit status " + strconv.Itoa(e.code)
}

func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

// printError reports err unless the command already did.
func printError(w io.Writer, err error) {
	var ee *exitError
	if errors.As(err, &ee) && ee.err == nil {
		return
	}
	if code := errutil.Code(err); code != "" {
		_, _ = fmt.Fprintf(w, "Error [%s]: %v\n", code, err)
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
}
