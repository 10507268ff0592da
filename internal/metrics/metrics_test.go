package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New()
	m.Rows("internet", 20)
	m.Rows("internet", 5)
	m.Dropped("investment", 3)
	m.Chart("elbow", nil)
	m.Chart("clusters", errors.New("boom"))
	m.Failure("render")
	m.Inertia(3, 1.5)

	assert.Equal(t, 25.0, testutil.ToFloat64(m.prometheus.Rows.WithLabelValues("internet")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.prometheus.Dropped.WithLabelValues("investment")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.prometheus.Charts.WithLabelValues("elbow", OK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.prometheus.Charts.WithLabelValues("clusters", Failed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.prometheus.Failures.WithLabelValues("render")))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.prometheus.Inertia.WithLabelValues("3")))

	families, err := m.Registry().Gather()
	assert.NoError(t, err)
	assert.Len(t, families, 5)

	m.Log()
}

func TestMetrics_Isolated(t *testing.T) {
	a, b := New(), New()
	a.Rows("internet", 1)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.prometheus.Rows.WithLabelValues("internet")))
}
