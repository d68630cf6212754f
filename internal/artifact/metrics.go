// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package artifact

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for readiness metrics.
const (
	ResultReady              = "ready"
	ResultBuilt              = "built"
	ResultFailed             = "failed"
	ResultDependencyDegraded = "dependency_degraded"
)

// BuildResults counts readiness outcomes per package.
// Use RegisterMetrics to register this with a Prometheus registry.
var BuildResults = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pais_build_results_total",
		Help: "Total number of package readiness outcomes by result",
	},
	[]string{"plugin", "result"},
)

// RegisterMetrics registers artifact package metrics with the given registry.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(BuildResults)
}

func recordResult(plugin, result string) {
	BuildResults.WithLabelValues(plugin, result).Inc()
}
