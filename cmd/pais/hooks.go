// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pais-dev/pais/internal/hook"
	"github.com/pais-dev/pais/internal/plugin"
)

func newHooksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hooks [event]",
		Short: "List registered hook handlers",
		Long: `List every handler binding in dispatch order, optionally for one event.
Handlers of plugins that later turn out degraded are listed too.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events := plugin.Events()
			if len(args) == 1 {
				event, ok := plugin.ParseEvent(args[0])
				if !ok {
					return withExitCode(1, hook.ErrUnknownEvent(args[0]))
				}
				events = []plugin.Event{event}
			}
			return a.runHooks(cmd, events)
		},
	}
}

func (a *app) runHooks(cmd *cobra.Command, events []plugin.Event) error {
	load, err := a.discover(cmd.Context())
	if err != nil {
		return withExitCode(1, err)
	}

	blockable, err := hook.ParseBlockable(a.cfg.BlockableEvents)
	if err != nil {
		return withExitCode(1, err)
	}

	out := cmd.OutOrStdout()
	rows := 0
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "EVENT\tPLUGIN\tEXECUTABLE\tMATCHER\tTIMEOUT\tBLOCKABLE")
	for _, event := range events {
		for _, pkg := range load.Packages {
			for _, b := range pkg.Manifest.Bindings(event) {
				matcher := b.Matcher
				if matcher == "" {
					matcher = "*"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n",
					event, pkg.Name(), b.Executable, matcher,
					b.TimeoutOr(a.cfg.DefaultTimeout), blockable.Contains(event))
				rows++
			}
		}
	}
	if rows == 0 {
		_, _ = fmt.Fprintln(out, "No hook handlers registered.")
		return nil
	}
	return w.Flush() //nolint:wrapcheck // terminal write error
}
