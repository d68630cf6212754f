// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package hook

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pais-dev/pais/internal/plugin"
)

// DispatchTotal counts dispatches by event and aggregate verdict.
// Use RegisterMetrics to register this with a Prometheus registry.
var DispatchTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pais_hook_dispatch_total",
		Help: "Total number of event dispatches by aggregate verdict",
	},
	[]string{"event", "verdict"},
)

// HandlerResults counts handler invocations by verdict.
// Use RegisterMetrics to register this with a Prometheus registry.
var HandlerResults = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pais_hook_handler_results_total",
		Help: "Total number of handler invocations by verdict",
	},
	[]string{"event", "plugin", "verdict"},
)

// HandlerDuration observes handler wall-clock time.
// Use RegisterMetrics to register this with a Prometheus registry.
var HandlerDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "pais_hook_handler_duration_seconds",
		Help:    "Handler execution duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"event", "plugin"},
)

// RegisterMetrics registers hook package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(DispatchTotal)
	reg.MustRegister(HandlerResults)
	reg.MustRegister(HandlerDuration)
}

func recordDispatch(event plugin.Event, verdict Verdict) {
	DispatchTotal.WithLabelValues(string(event), string(verdict)).Inc()
}

func recordHandler(event plugin.Event, name string, verdict Verdict, d time.Duration) {
	HandlerResults.WithLabelValues(string(event), name, string(verdict)).Inc()
	HandlerDuration.WithLabelValues(string(event), name).Observe(d.Seconds())
}
