// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

// Package artifact makes sure every package has an invocable executable
// before any of its handlers is dispatched.
//
// Readiness is decided once per invocation, up front, in dependency order:
// a package's check command runs first and, only when it fails, its build
// command runs once. The outcome is cached for the rest of the process and
// dispatch never triggers a build.
package artifact

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Adapter turns a package's handler executable into a command line for one
// language runtime.
type Adapter interface {
	// Language returns the tag this adapter was registered for.
	Language() string

	// Command returns argv to run executable, relative to dir.
	Command(dir, executable string) []string

	// Check reports whether the runtime itself is available on this host.
	Check() error
}

// directAdapter executes the handler file itself.
type directAdapter struct {
	language string
}

func (a directAdapter) Language() string { return a.language }

func (a directAdapter) Command(dir, executable string) []string {
	return []string{filepath.Join(dir, executable)}
}

func (a directAdapter) Check() error { return nil }

// pythonAdapter runs scripts through uv when it is installed, python3 otherwise.
type pythonAdapter struct {
	lookPath func(string) (string, error)
}

func (a pythonAdapter) Language() string { return "python" }

func (a pythonAdapter) Command(dir, executable string) []string {
	script := filepath.Join(dir, executable)
	if _, err := a.lookPath("uv"); err == nil {
		return []string{"uv", "run", "--quiet", "python", script}
	}
	return []string{"python3", script}
}

func (a pythonAdapter) Check() error {
	if _, err := a.lookPath("uv"); err == nil {
		return nil
	}
	if _, err := a.lookPath("python3"); err != nil {
		return fmt.Errorf("neither uv nor python3 found on PATH")
	}
	return nil
}

// mixedAdapter picks python for .py files and direct execution otherwise.
type mixedAdapter struct {
	python pythonAdapter
}

func (a mixedAdapter) Language() string { return "mixed" }

func (a mixedAdapter) Command(dir, executable string) []string {
	if strings.EqualFold(filepath.Ext(executable), ".py") {
		return a.python.Command(dir, executable)
	}
	return directAdapter{}.Command(dir, executable)
}

func (a mixedAdapter) Check() error { return nil }

// Adapters selects an Adapter by language tag.
type Adapters struct {
	byLanguage map[string]Adapter
	fallback   Adapter
}

// DefaultAdapters returns adapters for the built-in language tags. Unknown
// tags fall back to executing the handler file directly.
func DefaultAdapters() *Adapters {
	python := pythonAdapter{lookPath: exec.LookPath}
	a := &Adapters{
		byLanguage: make(map[string]Adapter),
		fallback:   directAdapter{language: ""},
	}
	a.Register(python)
	a.Register(mixedAdapter{python: python})
	for _, lang := range []string{"rust", "go", "shell", "binary"} {
		a.Register(directAdapter{language: lang})
	}
	return a
}

// Register adds or replaces the adapter for its language.
func (a *Adapters) Register(adapter Adapter) {
	a.byLanguage[strings.ToLower(adapter.Language())] = adapter
}

// For returns the adapter for a language tag.
func (a *Adapters) For(language string) Adapter {
	if adapter, ok := a.byLanguage[strings.ToLower(language)]; ok {
		return adapter
	}
	return a.fallback
}
