// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package metrics holds the Prometheus instruments of the workspace.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all workspace Prometheus metrics
type Metrics struct {
	// Document metrics
	Parses        prometheus.Counter
	ParsesSkipped prometheus.Counter
	OpenDocuments prometheus.Gauge
	ParseDiags    *prometheus.CounterVec

	// Hover metrics
	Hovers *prometheus.CounterVec

	// Lint metrics
	Mismatches *prometheus.CounterVec
}

// New creates the workspace metrics. They are not registered.
func New() *Metrics {
	return &Metrics{
		Parses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kcldoc_parses_total",
			Help: "Total number of documents parsed",
		}),
		ParsesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kcldoc_parses_skipped_total",
			Help: "Total number of updates whose content hash was unchanged",
		}),
		OpenDocuments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kcldoc_open_documents",
			Help: "Number of documents held by the workspace",
		}),
		ParseDiags: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kcldoc_parse_diagnostics_total",
			Help: "Total number of parse diagnostics",
		}, []string{"severity"}),

		Hovers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kcldoc_hovers_total",
			Help: "Total number of hover requests by result",
		}, []string{"result"}),

		Mismatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kcldoc_mismatches_total",
			Help: "Total number of documentation mismatches reported",
		}, []string{"kind"}),
	}
}

// Describe implements prometheus.Collector
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.Parses.Describe(ch)
	m.ParsesSkipped.Describe(ch)
	m.OpenDocuments.Describe(ch)
	m.ParseDiags.Describe(ch)
	m.Hovers.Describe(ch)
	m.Mismatches.Describe(ch)
}

// Collect implements prometheus.Collector
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.Parses.Collect(ch)
	m.ParsesSkipped.Collect(ch)
	m.OpenDocuments.Collect(ch)
	m.ParseDiags.Collect(ch)
	m.Hovers.Collect(ch)
	m.Mismatches.Collect(ch)
}

// ObserveHover counts a hover request. result is "none" when nothing was found.
func (m *Metrics) ObserveHover(result string) {
	if result == "" {
		result = "none"
	}
	m.Hovers.WithLabelValues(result).Inc()
}

// ObserveMismatches adds per-kind mismatch counts.
func (m *Metrics) ObserveMismatches(counts map[string]int) {
	for kind, n := range counts {
		m.Mismatches.WithLabelValues(kind).Add(float64(n))
	}
}

// NewRegistry returns a registry holding m and the Go runtime collectors.
func NewRegistry(m *Metrics) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(m); err != nil {
		return nil, err
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	return reg, nil
}

// Handler serves reg in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
