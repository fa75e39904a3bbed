// Package metrics provides Prometheus metrics for the universe context.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	UniverseCreated prometheus.Counter
	SettingsUpdated prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		UniverseCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nachlass_universe_created_total",
			Help: "Total number of universes created.",
		}),
		SettingsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nachlass_universe_settings_updated_total",
			Help: "Total number of universe settings updates.",
		}),
	}
}

func (m *Metrics) IncrementUniverseCreated() {
	if m == nil {
		return
	}
	m.UniverseCreated.Inc()
}

func (m *Metrics) IncrementSettingsUpdated() {
	if m == nil {
		return
	}
	m.SettingsUpdated.Inc()
}
