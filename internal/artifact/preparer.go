// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package artifact

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/pais-dev/pais/internal/contract"
	"github.com/pais-dev/pais/internal/plugin"
)

// StateKind classifies a package's readiness.
type StateKind string

// Readiness states.
const (
	StateReady    StateKind = "ready"
	StateDegraded StateKind = "degraded"
)

// State is the readiness outcome for one package.
type State struct {
	Plugin string
	Kind   StateKind
	// Built is true when the build command ran and produced a passing check.
	Built bool
	// Reason is a short human-readable explanation for degraded packages.
	Reason string
	// Cause names the degraded provider when degradation was inherited.
	Cause string
	Err   error
}

// Degraded reports whether the package is excluded from dispatch.
func (s State) Degraded() bool {
	return s.Kind == StateDegraded
}

// Readiness is an immutable snapshot of prepared packages.
type Readiness struct {
	states map[string]State
}

// NewReadiness creates a snapshot from states. Intended for tests and
// callers that decide readiness themselves.
func NewReadiness(states ...State) *Readiness {
	r := &Readiness{states: make(map[string]State, len(states))}
	for _, s := range states {
		r.states[s.Plugin] = s
	}
	return r
}

// State returns the state of a package and whether it was prepared.
func (r *Readiness) State(name string) (State, bool) {
	if r == nil {
		return State{}, false
	}
	s, ok := r.states[name]
	return s, ok
}

// IsReady reports whether a package was prepared and is not degraded.
func (r *Readiness) IsReady(name string) bool {
	s, ok := r.State(name)
	return ok && s.Kind == StateReady
}

// Degraded returns the names of degraded packages, sorted.
func (r *Readiness) Degraded() []string {
	if r == nil {
		return nil
	}
	var out []string
	for name, s := range r.states {
		if s.Degraded() {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Preparer checks and builds package artifacts. Outcomes are cached for the
// lifetime of the Preparer, which is one process invocation: a package is
// never built twice.
type Preparer struct {
	runner   Runner
	adapters *Adapters
	cache    map[string]State
	mu       sync.Mutex
}

// PreparerOption configures the Preparer.
type PreparerOption func(*Preparer)

// WithAdapters sets the language adapters used for runtime checks.
func WithAdapters(a *Adapters) PreparerOption {
	return func(p *Preparer) {
		p.adapters = a
	}
}

// NewPreparer creates a preparer running check and build commands with runner.
func NewPreparer(runner Runner, opts ...PreparerOption) *Preparer {
	p := &Preparer{
		runner:   runner,
		adapters: DefaultAdapters(),
		cache:    make(map[string]State),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prepare readies every package in dependency order.
func (p *Preparer) Prepare(ctx context.Context, reg *contract.Registry) *Readiness {
	return p.prepareAll(ctx, reg, reg.Order())
}

// PrepareFor readies one package and the providers it transitively requires.
func (p *Preparer) PrepareFor(ctx context.Context, reg *contract.Registry, name string) (*Readiness, error) {
	if _, ok := reg.Package(name); !ok {
		return nil, plugin.ErrPackageNotFound(name)
	}

	needed := map[string]bool{name: true}
	queue := []string{name}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dep := range reg.Dependencies(cur) {
			if !needed[dep] {
				needed[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	var names []string
	for _, n := range reg.Order() {
		if needed[n] {
			names = append(names, n)
		}
	}
	return p.prepareAll(ctx, reg, names), nil
}

func (p *Preparer) prepareAll(ctx context.Context, reg *contract.Registry, names []string) *Readiness {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := &Readiness{states: make(map[string]State, len(names))}
	for _, name := range names {
		s, ok := p.cache[name]
		if !ok {
			s = p.prepareOne(ctx, reg, name)
			p.cache[name] = s
		}
		out.states[name] = s
	}
	return out
}

// prepareOne decides readiness for one package. Providers are always
// prepared first, so their cached state is available here.
func (p *Preparer) prepareOne(ctx context.Context, reg *contract.Registry, name string) State {
	pkg, _ := reg.Package(name)

	for _, dep := range reg.Dependencies(name) {
		if ds, ok := p.cache[dep]; ok && ds.Degraded() {
			slog.WarnContext(ctx, "plugin degraded by required provider",
				"plugin", name,
				"provider", dep)
			recordResult(name, ResultDependencyDegraded)
			return State{
				Plugin: name,
				Kind:   StateDegraded,
				Reason: fmt.Sprintf("required provider %s is degraded", dep),
				Cause:  dep,
				Err:    ErrDependencyDegraded(name, dep),
			}
		}
	}

	adapter := p.adapters.For(pkg.Manifest.Language)
	if err := adapter.Check(); err != nil {
		recordResult(name, ResultFailed)
		return degraded(ctx, name, "runtime unavailable: "+err.Error(),
			ErrRuntimeUnavailable(name, pkg.Manifest.Language, err))
	}

	build := pkg.Manifest.Build
	check, err := p.check(ctx, pkg)
	if err == nil && check.Succeeded() {
		recordResult(name, ResultReady)
		return State{Plugin: name, Kind: StateReady}
	}

	if build.Command == "" {
		recordResult(name, ResultFailed)
		reason := describe("check", check, err)
		return degraded(ctx, name, reason, ErrBuildFailure(name, reason, err))
	}

	slog.InfoContext(ctx, "building plugin", "plugin", name, "command", build.Command)
	res, err := p.runner.Run(ctx, pkg.Dir, build.Command)
	if err != nil || !res.Succeeded() {
		recordResult(name, ResultFailed)
		reason := describe("build", res, err)
		return degraded(ctx, name, reason, ErrBuildFailure(name, reason, err))
	}

	check, err = p.check(ctx, pkg)
	if err != nil || !check.Succeeded() {
		recordResult(name, ResultFailed)
		reason := describe("check after build", check, err)
		return degraded(ctx, name, reason, ErrBuildFailure(name, reason, err))
	}

	recordResult(name, ResultBuilt)
	slog.InfoContext(ctx, "plugin built", "plugin", name, "duration", res.Duration)
	return State{Plugin: name, Kind: StateReady, Built: true}
}

// check runs the artifact check command, then confirms every handler
// executable exists. An empty check command passes.
func (p *Preparer) check(ctx context.Context, pkg *plugin.Package) (CommandResult, error) {
	if cmd := pkg.Manifest.Build.Check; cmd != "" {
		res, err := p.runner.Run(ctx, pkg.Dir, cmd)
		if err != nil || !res.Succeeded() {
			return res, err
		}
	}
	if err := plugin.CheckExecutables(pkg.Manifest, pkg.Dir); err != nil {
		return CommandResult{}, err
	}
	return CommandResult{}, nil
}

func degraded(ctx context.Context, name, reason string, err error) State {
	slog.WarnContext(ctx, "plugin degraded", "plugin", name, "reason", reason)
	return State{Plugin: name, Kind: StateDegraded, Reason: reason, Err: err}
}

func describe(step string, res CommandResult, err error) string {
	if err != nil {
		return fmt.Sprintf("%s: %v", step, err)
	}
	msg := fmt.Sprintf("%s exited %d", step, res.ExitCode)
	if out := strings.TrimSpace(res.Output); out != "" {
		if i := strings.LastIndexByte(out, '\n'); i >= 0 {
			out = out[i+1:]
		}
		msg += ": " + out
	}
	return msg
}
