// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

// Package hooksdk provides helpers for writing pais event handlers in Go.
//
// A handler is an ordinary executable. pais runs it with the event payload
// on stdin and PAIS_EVENT, PAIS_PLUGIN and PAIS_PLUGIN_DIR in the
// environment, then reads its exit code: 0 allows, 2 blocks (on blockable
// events), anything else is a handler error. Text written to stderr
// alongside a block is shown to the host as the reason.
//
// Example usage:
//
//	package main
//
//	import (
//		"os"
//		"strings"
//
//		"github.com/pais-dev/pais/pkg/hooksdk"
//	)
//
//	func main() {
//		os.Exit(hooksdk.Run(func(ev hooksdk.Env, p hooksdk.Payload) (hooksdk.Decision, error) {
//			if strings.Contains(p.String("command"), "rm -rf /") {
//				return hooksdk.Deny("refusing to delete the filesystem"), nil
//			}
//			return hooksdk.Allow(), nil
//		}))
//	}
package hooksdk

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Environment variables pais sets for every handler.
const (
	EnvEvent     = "PAIS_EVENT"
	EnvPlugin    = "PAIS_PLUGIN"
	EnvPluginDir = "PAIS_PLUGIN_DIR"
)

// Exit codes understood by pais.
const (
	ExitAllow = 0
	ExitError = 1
	ExitBlock = 2
)

// Env describes the invocation, as read from the environment.
type Env struct {
	Event     string
	Plugin    string
	PluginDir string
}

// FromEnv reads the invocation environment.
func FromEnv() Env {
	return Env{
		Event:     os.Getenv(EnvEvent),
		Plugin:    os.Getenv(EnvPlugin),
		PluginDir: os.Getenv(EnvPluginDir),
	}
}

// Payload is the event payload sent by the host.
type Payload struct {
	Raw    json.RawMessage
	fields map[string]any
}

// ReadPayload reads the payload from r. Empty input yields an empty
// payload; input that is not a JSON object keeps only Raw.
func ReadPayload(r io.Reader) (Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Payload{}, fmt.Errorf("read payload: %w", err)
	}
	p := Payload{Raw: data}
	if len(strings.TrimSpace(string(data))) == 0 {
		return p, nil
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err == nil {
		p.fields = fields
	}
	return p, nil
}

// Field returns a top-level payload field.
func (p Payload) Field(key string) (any, bool) {
	v, ok := p.fields[key]
	return v, ok
}

// String returns a top-level string field, or "" when absent or not a string.
func (p Payload) String(key string) string {
	s, _ := p.fields[key].(string)
	return s
}

// ToolName returns the tool the event concerns, when the host sent one.
func (p Payload) ToolName() string {
	return p.String("tool_name")
}

// SessionID returns the host session identifier, when present.
func (p Payload) SessionID() string {
	return p.String("session_id")
}

// Decode unmarshals the raw payload into v.
func (p Payload) Decode(v any) error {
	if err := json.Unmarshal(p.Raw, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// Decision is a handler's verdict.
type Decision struct {
	Block  bool
	Reason string
}

// Allow lets the host action proceed.
func Allow() Decision { return Decision{} }

// Deny blocks the host action with a reason.
func Deny(reason string) Decision { return Decision{Block: true, Reason: reason} }

// Block writes reason to w and returns the block exit code.
func Block(w io.Writer, reason string) int {
	if reason != "" {
		_, _ = fmt.Fprintln(w, reason)
	}
	return ExitBlock
}

// HandlerFunc decides on one event.
type HandlerFunc func(env Env, payload Payload) (Decision, error)

// Run reads the invocation from the process environment and stdin, calls h,
// and returns the exit code to pass to os.Exit.
func Run(h HandlerFunc) int {
	return RunWith(h, FromEnv(), os.Stdin, os.Stderr)
}

// RunWith is Run with explicit inputs.
func RunWith(h HandlerFunc, env Env, stdin io.Reader, stderr io.Writer) int {
	payload, err := ReadPayload(stdin)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitError
	}
	d, err := h(env, payload)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitError
	}
	if d.Block {
		return Block(stderr, d.Reason)
	}
	return ExitAllow
}
