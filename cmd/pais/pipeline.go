// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package main

import (
	"context"
	"io"

	"github.com/pais-dev/pais/internal/artifact"
	"github.com/pais-dev/pais/internal/audit"
	"github.com/pais-dev/pais/internal/config"
	"github.com/pais-dev/pais/internal/contract"
	"github.com/pais-dev/pais/internal/hook"
	"github.com/pais-dev/pais/internal/observability"
	"github.com/pais-dev/pais/internal/plugin"
	"github.com/pais-dev/pais/pkg/errutil"
)

// discover loads every package under the configured roots.
func (a *app) discover(ctx context.Context) (*plugin.LoadResult, error) {
	loader := plugin.NewLoader(a.cfg.PluginDirs, plugin.WithCoreVersion(a.deps.CoreVersion))
	return loader.Load(ctx) //nolint:wrapcheck // loader errors carry their own codes
}

// wire discovers packages and builds the contract registry.
func (a *app) wire(ctx context.Context) (*plugin.LoadResult, *contract.Registry, error) {
	load, err := a.discover(ctx)
	if err != nil {
		return nil, nil, err
	}
	reg, err := contract.Build(load.Packages)
	if err != nil {
		return load, nil, err //nolint:wrapcheck // registry errors carry their own codes
	}
	return load, reg, nil
}

func (a *app) preparer() *artifact.Preparer {
	return artifact.NewPreparer(
		a.deps.RunnerFactory(a.cfg.BuildTimeout),
		artifact.WithAdapters(a.deps.Adapters()),
	)
}

// metrics starts a registry for this invocation's collectors.
func (a *app) metrics() *observability.Pusher {
	registry := observability.NewRegistry(hook.RegisterMetrics, artifact.RegisterMetrics)
	return observability.NewPusher(a.cfg.Metrics.Pushgateway, a.cfg.Metrics.Job, registry)
}

// pushMetrics never fails the command; a missing gateway is only logged.
func (a *app) pushMetrics(ctx context.Context, p *observability.Pusher) {
	if err := p.Push(ctx); err != nil {
		errutil.LogWarn(ctx, a.logger, "metrics push failed", err)
	}
}

// recorder builds the audit recorder from configuration, or nil when
// auditing is disabled or no sink is configured.
func (a *app) recorder(stdout io.Writer) *audit.Recorder {
	if !a.cfg.Audit.Enabled || len(a.cfg.Audit.Sinks) == 0 {
		return nil
	}
	sinks := make([]audit.Sink, 0, len(a.cfg.Audit.Sinks))
	for _, name := range a.cfg.Audit.Sinks {
		switch name {
		case config.SinkFile:
			sinks = append(sinks, audit.NewFileSink(a.cfg.Audit.Dir))
		case config.SinkStdout:
			sinks = append(sinks, audit.NewWriterSink(stdout))
		case config.SinkHTTP:
			sinks = append(sinks, audit.NewHTTPSink(a.cfg.Audit.HTTPEndpoint))
		}
	}
	return audit.NewRecorder(audit.Options{
		IncludePayload: a.cfg.Audit.IncludePayload,
		MaxOutput:      a.cfg.Audit.MaxOutput,
	}, sinks...)
}
