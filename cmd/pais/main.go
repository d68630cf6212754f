// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

// Package main is the entry point for the pais CLI.
package main

import (
	"fmt"
	"os"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	err := cmd.Execute()
	if err != nil {
		printError(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}
