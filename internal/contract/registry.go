// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

// Package contract resolves the provider/consumer graph between packages.
//
// A Registry is built once per invocation from the loaded packages and is
// read-only afterwards. Construction is all-or-nothing: an ambiguous
// provider, a missing required contract, or a dependency cycle aborts it
// before any package is prepared or dispatched.
package contract

import (
	"sort"

	"github.com/pais-dev/pais/internal/plugin"
)

// Key identifies a contract, optionally parameterized by a service.
type Key struct {
	Contract string `json:"contract"`
	Service  string `json:"service,omitempty"`
}

// String renders the key as Contract or Contract[service].
func (k Key) String() string {
	if k.Service == "" {
		return k.Contract
	}
	return k.Contract + "[" + k.Service + "]"
}

// ProvisionKey returns the key a provision registers under.
func ProvisionKey(p plugin.Provision) Key {
	return Key{Contract: p.Contract, Service: p.Service}
}

// RequirementKey returns the key a requirement looks up.
func RequirementKey(r plugin.Requirement) Key {
	return Key{Contract: r.Contract, Service: r.Service}
}

// Resolution is the outcome of looking up one requirement: either
// Resolved with a provider name, or Unresolved. Unresolved only ever
// appears for optional requirements.
type Resolution struct {
	Consumer string
	Key      Key
	Optional bool
	Provider string
	Resolved bool
}

// Binding pairs a provider name with the key it provides.
type Binding struct {
	Key      Key
	Provider string
}

// Registry is the resolved provider/consumer graph.
type Registry struct {
	packages    []*plugin.Package
	byName      map[string]*plugin.Package
	providers   map[Key]string
	resolutions map[string][]Resolution
	order       []string
}

// Build constructs the registry from packages in discovery order.
func Build(pkgs []*plugin.Package) (*Registry, error) {
	r := &Registry{
		packages:    append([]*plugin.Package(nil), pkgs...),
		byName:      make(map[string]*plugin.Package, len(pkgs)),
		providers:   make(map[Key]string),
		resolutions: make(map[string][]Resolution, len(pkgs)),
	}

	for _, p := range pkgs {
		r.byName[p.Name()] = p
		for _, prov := range p.Manifest.Provides {
			key := ProvisionKey(prov)
			if existing, ok := r.providers[key]; ok {
				return nil, ErrAmbiguousProvider(key, existing, p.Name())
			}
			r.providers[key] = p.Name()
		}
	}

	deps := make(map[string][]string, len(pkgs))
	names := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		names = append(names, p.Name())
		resolved := make([]Resolution, 0, len(p.Manifest.Consumes))
		for _, req := range p.Manifest.Consumes {
			key := RequirementKey(req)
			res := Resolution{Consumer: p.Name(), Key: key, Optional: req.Optional}
			provider, ok := r.providers[key]
			switch {
			case ok:
				res.Provider = provider
				res.Resolved = true
				if provider != p.Name() {
					deps[p.Name()] = append(deps[p.Name()], provider)
				}
			case !req.Optional:
				return nil, ErrMissingRequiredContract(p.Name(), key)
			}
			resolved = append(resolved, res)
		}
		r.resolutions[p.Name()] = resolved
	}

	order, err := Order(names, deps)
	if err != nil {
		return nil, err
	}
	r.order = order

	return r, nil
}

// Packages returns all packages in discovery order.
func (r *Registry) Packages() []*plugin.Package {
	return append([]*plugin.Package(nil), r.packages...)
}

// Package returns a package by name.
func (r *Registry) Package(name string) (*plugin.Package, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Provider returns the package providing a key.
func (r *Registry) Provider(key Key) (string, bool) {
	p, ok := r.providers[key]
	return p, ok
}

// Providers returns every provided key, sorted by key.
func (r *Registry) Providers() []Binding {
	out := make([]Binding, 0, len(r.providers))
	for k, p := range r.providers {
		out = append(out, Binding{Key: k, Provider: p})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.String() < out[j].Key.String()
	})
	return out
}

// Resolutions returns how each requirement of a package resolved, in
// manifest order.
func (r *Registry) Resolutions(name string) []Resolution {
	return append([]Resolution(nil), r.resolutions[name]...)
}

// Dependencies returns the distinct providers a package requires
// non-optionally, excluding itself.
func (r *Registry) Dependencies(name string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, res := range r.resolutions[name] {
		if !res.Resolved || res.Optional || res.Provider == name || seen[res.Provider] {
			continue
		}
		seen[res.Provider] = true
		out = append(out, res.Provider)
	}
	return out
}

// Order returns package names with providers before their consumers.
func (r *Registry) Order() []string {
	return append([]string(nil), r.order...)
}
