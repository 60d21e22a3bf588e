package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeCommitted = "committed"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)

type metrics struct {
	registry    *prometheus.Registry
	actions     *prometheus.CounterVec
	subscribers prometheus.Gauge
}

func newMetrics(reg *prometheus.Registry) *metrics {
	m := &metrics{
		registry: reg,
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formdesigner",
			Name:      "actions_total",
			Help:      "Editing actions by type and outcome.",
		}, []string{"type", "outcome"}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "formdesigner",
			Name:      "ws_subscribers",
			Help:      "Connected websocket subscribers.",
		}),
	}
	reg.MustRegister(m.actions, m.subscribers)
	return m
}

func (m *metrics) observe(kind, outcome string) {
	m.actions.WithLabelValues(kind, outcome).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
