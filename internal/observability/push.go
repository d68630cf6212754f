// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

// Package observability collects the metrics of one pais invocation and
// pushes them to a Prometheus Pushgateway before the process exits.
package observability

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/samber/oops"
)

// NewRegistry creates a private registry and lets each package register
// its collectors on it.
func NewRegistry(register ...func(prometheus.Registerer)) *prometheus.Registry {
	// A private registry keeps the default one free of pais collectors.
	registry := prometheus.NewRegistry()
	for _, r := range register {
		r(registry)
	}
	return registry
}

// Pusher sends a registry's metrics to a Pushgateway.
type Pusher struct {
	url      string
	job      string
	registry prometheus.Gatherer
	instance string
}

// NewPusher creates a pusher for url. An empty url yields a disabled pusher.
func NewPusher(url, job string, registry prometheus.Gatherer) *Pusher {
	instance, err := os.Hostname()
	if err != nil {
		instance = "unknown"
	}
	return &Pusher{url: url, job: job, registry: registry, instance: instance}
}

// Enabled reports whether a Pushgateway is configured.
func (p *Pusher) Enabled() bool {
	return p != nil && p.url != ""
}

// Push adds the current metric values under the job and instance grouping.
// It is a no-op when disabled.
func (p *Pusher) Push(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	err := push.New(p.url, p.job).
		Gatherer(p.registry).
		Grouping("instance", p.instance).
		AddContext(ctx)
	if err != nil {
		return oops.
			With("pushgateway", p.url).
			With("job", p.job).
			Wrapf(err, "push metrics")
	}
	return nil
}
