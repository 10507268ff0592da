package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "edu"

// Prometheus holds the collectors of a run.
type Prometheus struct {
	Rows     *prometheus.CounterVec
	Dropped  *prometheus.CounterVec
	Charts   *prometheus.CounterVec
	Failures *prometheus.CounterVec
	Inertia  *prometheus.GaugeVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_loaded_total",
				Help:      "rows loaded per source",
			}, []string{"source"}),
		Dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cells_dropped_total",
				Help:      "cells dropped while reshaping per source",
			}, []string{"source"}),
		Charts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "charts_total",
				Help:      "charts rendered per chart and status",
			}, []string{"chart", "status"}),
		Failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stage_failures_total",
				Help:      "failed pipeline stages",
			}, []string{"stage"}),
		Inertia: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cluster_inertia",
				Help:      "inertia of the fitted model per cluster count",
			}, []string{"k"}),
	}
}

func (p Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{p.Rows, p.Dropped, p.Charts, p.Failures, p.Inertia}
}
