// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Atrium Contributors

package plugin

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors a Registry reports to.
type Metrics struct {
	Transitions *prometheus.CounterVec
	Plugins     *prometheus.GaugeVec
}

// Transition results recorded on the transitions counter.
const (
	resultOK    = "ok"
	resultError = "error"
)

// NewMetrics creates and registers the registry collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atrium_plugin_transitions_total",
				Help: "Total number of plugin lifecycle operations by operation and result",
			},
			[]string{"operation", "result"},
		),
		Plugins: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "atrium_plugins",
				Help: "Number of registered plugins by lifecycle status",
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(m.Transitions)
	reg.MustRegister(m.Plugins)

	return m
}

func (m *Metrics) recordTransition(operation string, err error) {
	if m == nil {
		return
	}
	result := resultOK
	if err != nil {
		result = resultError
	}
	m.Transitions.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) setStatusCounts(counts map[Status]int) {
	if m == nil {
		return
	}
	for _, s := range Statuses {
		m.Plugins.WithLabelValues(string(s)).Set(float64(counts[s]))
	}
}
