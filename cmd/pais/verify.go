// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pais-dev/pais/internal/contract"
	"github.com/pais-dev/pais/internal/plugin"
)

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <plugin>",
		Short: "Verify one plugin's manifest, contracts, and artifacts",
		Long: `Verify a single plugin: its manifest parses, its handler executables exist,
its required contracts resolve, and its artifacts pass their check (building
them when needed, together with the providers it depends on).

Exits 1 when any step fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVerify(cmd, args[0])
		},
	}
}

// verifyReport collects PASS/FAIL lines.
type verifyReport struct {
	w      *tabwriter.Writer
	failed bool
}

func newVerifyReport(out io.Writer) *verifyReport {
	return &verifyReport{w: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
}

func (r *verifyReport) pass(step, detail string) {
	_, _ = fmt.Fprintf(r.w, "PASS\t%s\t%s\n", step, detail)
}

func (r *verifyReport) fail(step, detail string) {
	r.failed = true
	_, _ = fmt.Fprintf(r.w, "FAIL\t%s\t%s\n", step, detail)
}

func (r *verifyReport) done() error {
	_ = r.w.Flush()
	if r.failed {
		return withExitCode(1, nil)
	}
	return nil
}

func (a *app) runVerify(cmd *cobra.Command, name string) error {
	ctx := cmd.Context()
	report := newVerifyReport(cmd.OutOrStdout())

	load, err := a.discover(ctx)
	if err != nil {
		return withExitCode(1, err)
	}

	pkg, ok := load.Package(name)
	if !ok {
		for _, w := range load.Warnings {
			if filepath.Base(w.Dir) == name {
				report.fail("manifest", warningText(w))
				return report.done()
			}
		}
		return withExitCode(1, plugin.ErrPackageNotFound(name))
	}
	report.pass("manifest", fmt.Sprintf("%s %s (%s)", pkg.Name(), pkg.Manifest.Version, pkg.Dir))
	report.pass("executables", describeHandlers(pkg.Manifest))

	pusher := a.metrics()
	reg, err := contract.Build(load.Packages)
	if err != nil {
		report.fail("contracts", err.Error())
		return report.done()
	}
	report.pass("contracts", describeResolutions(reg.Resolutions(name)))

	readiness, err := a.preparer().PrepareFor(ctx, reg, name)
	if err != nil {
		report.fail("build", err.Error())
		return report.done()
	}
	a.pushMetrics(ctx, pusher)

	state, _ := readiness.State(name)
	switch {
	case state.Degraded():
		report.fail("build", state.Reason)
	case state.Built:
		report.pass("build", "built, check passed")
	default:
		report.pass("build", "check passed")
	}
	return report.done()
}

func warningText(w plugin.Warning) string {
	if cause := errors.Unwrap(w.Err); cause != nil {
		return cause.Error()
	}
	return w.Err.Error()
}

func describeHandlers(m *plugin.Manifest) string {
	events := m.Events()
	if len(events) == 0 {
		return "no hook handlers"
	}
	count := 0
	names := make([]string, 0, len(events))
	for _, e := range events {
		count += len(m.Bindings(e))
		names = append(names, string(e))
	}
	return fmt.Sprintf("%d handler(s) for %s", count, strings.Join(names, ", "))
}

func describeResolutions(res []contract.Resolution) string {
	if len(res) == 0 {
		return "no requirements"
	}
	parts := make([]string, 0, len(res))
	for _, r := range res {
		switch {
		case r.Resolved:
			parts = append(parts, r.Key.String()+" <- "+r.Provider)
		default:
			parts = append(parts, r.Key.String()+" (optional, unresolved)")
		}
	}
	return strings.Join(parts, ", ")
}
