// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

// Package plugin discovers installed packages and parses their plugin.yaml
// declarations into validated, immutable descriptors.
package plugin

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the declaration file name looked up in every package directory.
const ManifestFile = "plugin.yaml"

// Manifest represents a plugin.yaml file.
type Manifest struct {
	Name        string               `yaml:"name" jsonschema:"required,pattern=^[a-z]([a-z0-9-]*[a-z0-9])?$,maxLength=64"`
	Version     string               `yaml:"version" jsonschema:"required,minLength=1"`
	Description string               `yaml:"description,omitempty"`
	Authors     []string             `yaml:"authors,omitempty"`
	License     string               `yaml:"license,omitempty"`
	Homepage    string               `yaml:"homepage,omitempty"`
	Keywords    []string             `yaml:"keywords,omitempty"`
	Language    string               `yaml:"language,omitempty"`
	CoreVersion string               `yaml:"core-version,omitempty"`
	Provides    []Provision          `yaml:"provides,omitempty"`
	Consumes    []Requirement        `yaml:"consumes,omitempty"`
	Hooks       map[string][]Binding `yaml:"hooks,omitempty"`
	Build       Build                `yaml:"build,omitempty"`

	bindings map[Event][]Binding
}

// Provision declares a contract a package supplies to others.
type Provision struct {
	Contract string `yaml:"contract"`
	Service  string `yaml:"service,omitempty"`
}

// UnmarshalYAML accepts either a bare contract name or a mapping.
func (p *Provision) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		p.Contract = value.Value
		p.Service = ""
		return nil
	}
	type plain Provision
	var v plain
	if err := value.Decode(&v); err != nil {
		return err //nolint:wrapcheck // yaml decode errors already carry line info
	}
	*p = Provision(v)
	return nil
}

// JSONSchema describes the two accepted shapes of a provision.
func (Provision) JSONSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("contract", &jsonschema.Schema{Type: "string"})
	props.Set("service", &jsonschema.Schema{Type: "string"})
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{
				Type:                 "object",
				Properties:           props,
				Required:             []string{"contract"},
				AdditionalProperties: jsonschema.FalseSchema,
			},
		},
	}
}

// Requirement declares a contract a package needs from another package.
type Requirement struct {
	Contract string `yaml:"contract" jsonschema:"required"`
	Service  string `yaml:"service,omitempty"`
	Optional bool   `yaml:"optional,omitempty"`
}

// Binding attaches an executable to one event.
type Binding struct {
	Executable string `yaml:"executable" jsonschema:"required,minLength=1"`
	Matcher    string `yaml:"matcher,omitempty"`
	// Timeout in seconds; zero means the configured default.
	Timeout int `yaml:"timeout,omitempty" jsonschema:"minimum=0"`

	matcher Matcher
}

// Matches reports whether the binding applies to the given matcher context.
func (b Binding) Matches(context string) bool {
	return b.matcher.Match(context)
}

// TimeoutOr returns the binding timeout, or def when none is declared.
func (b Binding) TimeoutOr(def time.Duration) time.Duration {
	if b.Timeout <= 0 {
		return def
	}
	return time.Duration(b.Timeout) * time.Second
}

// Build describes how to check and produce a package's executable artifacts.
type Build struct {
	Check   string `yaml:"check,omitempty"`
	Command string `yaml:"command,omitempty"`
}

// maxNameLength is the maximum allowed length for plugin names.
const maxNameLength = 64

// namePattern validates plugin names: must start with lowercase letter,
// followed by lowercase letters, digits, or hyphens.
// Cannot end with a hyphen. Single character names are allowed.
var namePattern = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

// contractPattern validates contract names.
var contractPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.-]*$`)

// ParseManifest parses and validates a plugin.yaml file.
func ParseManifest(data []byte) (*Manifest, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("manifest data is empty")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks manifest constraints and indexes hook bindings by event.
func (m *Manifest) Validate() error {
	if m.Name == "" || !namePattern.MatchString(m.Name) || strings.Contains(m.Name, "--") {
		return fmt.Errorf("name %q must start with a-z, contain only a-z, 0-9, single hyphens, and not end with a hyphen", m.Name)
	}
	if len(m.Name) > maxNameLength {
		return fmt.Errorf("name must be %d characters or less, got %d", maxNameLength, len(m.Name))
	}

	if m.Version == "" {
		return fmt.Errorf("version is required")
	}
	if _, err := semver.NewVersion(m.Version); err != nil {
		return fmt.Errorf("version %q is not a semantic version: %w", m.Version, err)
	}
	if m.CoreVersion != "" {
		if _, err := semver.NewConstraint(m.CoreVersion); err != nil {
			return fmt.Errorf("core-version %q is not a valid constraint: %w", m.CoreVersion, err)
		}
	}

	for i, p := range m.Provides {
		if !contractPattern.MatchString(p.Contract) {
			return fmt.Errorf("provides[%d]: invalid contract name %q", i, p.Contract)
		}
	}
	for i, r := range m.Consumes {
		if !contractPattern.MatchString(r.Contract) {
			return fmt.Errorf("consumes[%d]: invalid contract name %q", i, r.Contract)
		}
	}

	bindings := make(map[Event][]Binding, len(m.Hooks))
	for name, list := range m.Hooks {
		event, ok := ParseEvent(name)
		if !ok {
			return fmt.Errorf("hooks: unknown event %q", name)
		}
		if _, dup := bindings[event]; dup {
			return fmt.Errorf("hooks: event %q declared more than once", event)
		}
		compiled := make([]Binding, 0, len(list))
		for i, b := range list {
			if err := b.validate(); err != nil {
				return fmt.Errorf("hooks.%s[%d]: %w", name, i, err)
			}
			matcher, err := ParseMatcher(b.Matcher)
			if err != nil {
				return fmt.Errorf("hooks.%s[%d]: %w", name, i, err)
			}
			b.matcher = matcher
			compiled = append(compiled, b)
		}
		bindings[event] = compiled
	}
	m.bindings = bindings

	return nil
}

func (b Binding) validate() error {
	if b.Executable == "" {
		return fmt.Errorf("executable is required")
	}
	if filepath.IsAbs(b.Executable) {
		return fmt.Errorf("executable %q must be relative to the package directory", b.Executable)
	}
	clean := filepath.Clean(b.Executable)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("executable %q escapes the package directory", b.Executable)
	}
	if b.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", b.Timeout)
	}
	return nil
}

// CheckCoreVersion reports an error when the manifest's core-version
// constraint excludes the running core. Development builds skip the check.
func (m *Manifest) CheckCoreVersion(core string) error {
	if m.CoreVersion == "" || core == "" || core == "dev" {
		return nil
	}
	v, err := semver.NewVersion(core)
	if err != nil {
		return nil //nolint:nilerr // unversioned core builds accept every package
	}
	c, err := semver.NewConstraint(m.CoreVersion)
	if err != nil {
		return fmt.Errorf("core-version %q is not a valid constraint: %w", m.CoreVersion, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("requires core %s, running %s", m.CoreVersion, core)
	}
	return nil
}

// Bindings returns the bindings declared for an event, in manifest order.
func (m *Manifest) Bindings(e Event) []Binding {
	list := m.bindings[e]
	out := make([]Binding, len(list))
	copy(out, list)
	return out
}

// Events returns the events this manifest has bindings for, in catalogue order.
func (m *Manifest) Events() []Event {
	var out []Event
	for _, e := range Events() {
		if len(m.bindings[e]) > 0 {
			out = append(out, e)
		}
	}
	return out
}
