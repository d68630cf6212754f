// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

// Package main implements the echo handler package for pais.
// It reports every event it receives on stderr and always allows.
//
// Build into the package directory:
//
//	go build -o plugins/echo/bin/echo ./plugins/echo
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pais-dev/pais/pkg/hooksdk"
)

func main() {
	os.Exit(hooksdk.Run(handler(os.Stderr)))
}

func handler(w io.Writer) hooksdk.HandlerFunc {
	return func(env hooksdk.Env, p hooksdk.Payload) (hooksdk.Decision, error) {
		line := "echo: " + env.Event
		if tool := p.ToolName(); tool != "" {
			line += " " + tool
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return hooksdk.Decision{}, fmt.Errorf("write: %w", err)
		}
		return hooksdk.Allow(), nil
	}
}
