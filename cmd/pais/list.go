// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pais-dev/pais/internal/status"
)

type listConfig struct {
	json  bool
	check bool
}

func newListCmd(a *app) *cobra.Command {
	cfg := &listConfig{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"status"},
		Short:   "Show installed plugins and their contract wiring",
		Long: `Show every discovered plugin with the contracts it provides and consumes,
the provider chosen for each requirement, and the dependency order.

With --check, each plugin's artifacts are checked (and built when needed)
and its readiness is reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runList(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.json, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&cfg.check, "check", false, "check and build artifacts, then report readiness")

	return cmd
}

func (a *app) runList(cmd *cobra.Command, cfg *listConfig) error {
	ctx := cmd.Context()
	pusher := a.metrics()

	load, reg, err := a.wire(ctx)
	in := status.Input{Load: load, Registry: reg, Err: err}
	if err == nil && cfg.check {
		in.Readiness = a.preparer().Prepare(ctx, reg)
		a.pushMetrics(ctx, pusher)
	}

	report := status.Build(in)
	out := cmd.OutOrStdout()
	if cfg.json {
		data, jsonErr := status.FormatJSON(report)
		if jsonErr != nil {
			return withExitCode(1, jsonErr)
		}
		_, _ = fmt.Fprintln(out, data)
	} else {
		_, _ = fmt.Fprint(out, status.FormatTable(report))
	}

	if err != nil {
		return withExitCode(1, nil)
	}
	return nil
}
