// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

// Package status describes the installed packages, their contract wiring and
// readiness without changing anything.
package status

import (
	"errors"

	"github.com/samber/oops"

	"github.com/pais-dev/pais/internal/artifact"
	"github.com/pais-dev/pais/internal/contract"
	"github.com/pais-dev/pais/internal/plugin"
	"github.com/pais-dev/pais/pkg/errutil"
)

// State is a package's readiness as shown in the report.
type State string

// States.
const (
	StateReady     State = "ready"
	StateDegraded  State = "degraded"
	StateUnchecked State = "unchecked"
)

// ErrorInfo describes a fatal error that prevented the registry from being built.
type ErrorInfo struct {
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

// WarningReport describes a package excluded at load time.
type WarningReport struct {
	Dir     string `json:"dir"`
	Message string `json:"message"`
}

// RequirementReport describes one consumed contract.
type RequirementReport struct {
	Key              string `json:"key"`
	Optional         bool   `json:"optional"`
	Resolved         bool   `json:"resolved"`
	Provider         string `json:"provider,omitempty"`
	ProviderDegraded bool   `json:"provider_degraded,omitempty"`
}

// PackageReport describes one loaded package.
type PackageReport struct {
	Name     string              `json:"name"`
	Version  string              `json:"version"`
	Language string              `json:"language,omitempty"`
	Dir      string              `json:"dir"`
	State    State               `json:"state"`
	Reason   string              `json:"reason,omitempty"`
	Provides []string            `json:"provides"`
	Requires []RequirementReport `json:"requires"`
	Events   []string            `json:"events"`
}

// Report is the full status view.
type Report struct {
	Error    *ErrorInfo      `json:"error,omitempty"`
	Warnings []WarningReport `json:"warnings"`
	Packages []PackageReport `json:"packages"`
	Order    []string        `json:"order"`
}

// Input gathers what a report is built from. Any field may be nil: a nil
// Registry with a non-nil Err describes a fatal registry failure, and a nil
// Readiness reports every package as unchecked.
type Input struct {
	Load      *plugin.LoadResult
	Registry  *contract.Registry
	Readiness *artifact.Readiness
	Err       error
}

// Build assembles a report. It has no side effects.
func Build(in Input) Report {
	report := Report{
		Warnings: []WarningReport{},
		Packages: []PackageReport{},
		Order:    []string{},
	}

	if in.Err != nil {
		report.Error = errorInfo(in.Err)
	}

	if in.Load != nil {
		for _, w := range in.Load.Warnings {
			report.Warnings = append(report.Warnings, WarningReport{Dir: w.Dir, Message: warningMessage(w.Err)})
		}
		for _, pkg := range in.Load.Packages {
			report.Packages = append(report.Packages, packageReport(pkg, in.Registry, in.Readiness))
		}
	}

	if in.Registry != nil {
		report.Order = in.Registry.Order()
	}

	return report
}

func packageReport(pkg *plugin.Package, reg *contract.Registry, ready *artifact.Readiness) PackageReport {
	m := pkg.Manifest
	pr := PackageReport{
		Name:     m.Name,
		Version:  m.Version,
		Language: m.Language,
		Dir:      pkg.Dir,
		State:    StateUnchecked,
		Provides: make([]string, 0, len(m.Provides)),
		Requires: make([]RequirementReport, 0, len(m.Consumes)),
		Events:   make([]string, 0, len(m.Hooks)),
	}

	if s, ok := ready.State(m.Name); ok {
		pr.State = State(s.Kind)
		pr.Reason = s.Reason
	}

	for _, p := range m.Provides {
		pr.Provides = append(pr.Provides, contract.ProvisionKey(p).String())
	}
	for _, e := range m.Events() {
		pr.Events = append(pr.Events, string(e))
	}

	if reg == nil {
		for _, req := range m.Consumes {
			pr.Requires = append(pr.Requires, RequirementReport{
				Key:      contract.RequirementKey(req).String(),
				Optional: req.Optional,
			})
		}
		return pr
	}

	for _, res := range reg.Resolutions(m.Name) {
		rr := RequirementReport{
			Key:      res.Key.String(),
			Optional: res.Optional,
			Resolved: res.Resolved,
			Provider: res.Provider,
		}
		if res.Resolved {
			if s, ok := ready.State(res.Provider); ok {
				rr.ProviderDegraded = s.Degraded()
			}
		}
		pr.Requires = append(pr.Requires, rr)
	}
	return pr
}

func errorInfo(err error) *ErrorInfo {
	info := &ErrorInfo{Message: err.Error(), Code: errutil.Code(err)}
	if oopsErr, ok := oops.AsOops(err); ok {
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			info.Context = ctx
		}
	}
	return info
}

// warningMessage strips the MANIFEST_PARSE_FAILURE wrapper, whose message
// only repeats the directory.
func warningMessage(err error) string {
	if errutil.Code(err) == plugin.CodeManifestParseFailure {
		if cause := errors.Unwrap(err); cause != nil {
			return cause.Error()
		}
	}
	return err.Error()
}
