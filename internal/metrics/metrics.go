package metrics

import (
	"strconv"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

const (
	OK     = "ok"
	Failed = "failed"
)

// Metrics records the counters of a single run on its own registry.
type Metrics struct {
	mutex      *sync.RWMutex
	registry   *prometheus.Registry
	prometheus Prometheus
}

// New creates the metrics for a run.
func New() *Metrics {
	m := &Metrics{
		mutex:      new(sync.RWMutex),
		registry:   prometheus.NewRegistry(),
		prometheus: NewPrometheusMetrics(),
	}
	m.registry.MustRegister(m.prometheus.collectors()...)
	return m
}

func (m *Metrics) Rows(source string, n int) {
	m.prometheus.Rows.WithLabelValues(source).Add(float64(n))
}

func (m *Metrics) Dropped(source string, n int) {
	m.prometheus.Dropped.WithLabelValues(source).Add(float64(n))
}

// Chart counts a rendered chart, failed if err is not nil.
func (m *Metrics) Chart(name string, err error) {
	status := OK
	if err != nil {
		status = Failed
	}
	m.prometheus.Charts.WithLabelValues(name, status).Inc()
}

func (m *Metrics) Failure(stage string) {
	m.prometheus.Failures.WithLabelValues(stage).Inc()
}

func (m *Metrics) Inertia(k int, inertia float64) {
	m.prometheus.Inertia.WithLabelValues(strconv.Itoa(k)).Set(inertia)
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Log writes a snapshot of all recorded values.
func (m *Metrics) Log() {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	families, err := m.registry.Gather()
	if err != nil {
		log.Error().Err(err).Msg("could not gather metrics")
		return
	}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, l := range metric.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			value := metric.GetCounter().GetValue()
			if g := metric.GetGauge(); g != nil {
				value = g.GetValue()
			}
			log.Info().
				Str("metric", f.GetName()).
				Str("labels", strings.Join(labels, ",")).
				Float64("value", value).
				Msg("metrics")
		}
	}
}
