// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package main

import (
	"fmt"
	"io"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/pais-dev/pais/internal/hook"
	"github.com/pais-dev/pais/internal/plugin"
)

type dispatchConfig struct {
	matcher string
	payload string
}

func newDispatchCmd(a *app) *cobra.Command {
	cfg := &dispatchConfig{}

	cmd := &cobra.Command{
		Use:   "dispatch <event>",
		Short: "Dispatch a hook event to every matching plugin handler",
		Long: `Dispatch a hook event to the handlers of every ready plugin, in discovery
order. The event payload is read from stdin unless --payload is given.

Handler stdout is copied to stdout. When a handler blocks a blockable event
the block reason is written to stderr and pais exits 2; a failing handler
never blocks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDispatch(cmd, args[0], cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.matcher, "matcher", "", "match context (default: tool_name from the payload)")
	cmd.Flags().StringVar(&cfg.payload, "payload", "", "event payload (default: read from stdin)")

	return cmd
}

func (a *app) runDispatch(cmd *cobra.Command, name string, cfg *dispatchConfig) error {
	ctx := cmd.Context()

	event, ok := plugin.ParseEvent(name)
	if !ok {
		return withExitCode(1, hook.ErrUnknownEvent(name))
	}

	var payload []byte
	if cmd.Flags().Changed("payload") {
		payload = []byte(cfg.payload)
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return withExitCode(1, oops.With("event", name).Wrapf(err, "read payload"))
		}
		payload = data
	}

	// Configuration and wiring failures exit 1 so they never read as a block.
	_, reg, err := a.wire(ctx)
	if err != nil {
		return withExitCode(1, err)
	}
	blockable, err := hook.ParseBlockable(a.cfg.BlockableEvents)
	if err != nil {
		return withExitCode(1, err)
	}

	pusher := a.metrics()
	readiness := a.preparer().Prepare(ctx, reg)
	for _, degraded := range readiness.Degraded() {
		state, _ := readiness.State(degraded)
		a.logger.WarnContext(ctx, "plugin degraded, handlers skipped",
			"plugin", degraded,
			"reason", state.Reason)
	}

	opts := []hook.Option{
		hook.WithBlockable(blockable),
		hook.WithDefaultTimeout(a.cfg.DefaultTimeout),
		hook.WithLogger(a.logger),
		hook.WithOutput(cmd.OutOrStdout()),
	}
	if rec := a.recorder(cmd.OutOrStdout()); rec != nil {
		opts = append(opts, hook.WithRecorder(rec))
	}

	dispatcher := hook.NewDispatcher(reg.Packages(), readiness, a.deps.ExecutorFactory(a.deps.Adapters()), opts...)
	outcome := dispatcher.Dispatch(ctx, hook.Request{
		Event:   event,
		Payload: payload,
		Matcher: cfg.matcher,
	})

	a.pushMetrics(ctx, pusher)

	if code := outcome.ExitCode(); code != hook.ExitAllow {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), outcome.BlockReason())
		return withExitCode(code, nil)
	}
	return nil
}
