package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ComparisonCreated("rental")
	m.ComparisonCreated("rental")
	m.ComparisonCreated("etf")
	m.ComparisonFailed(ReasonInvalid)
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.created.WithLabelValues("rental")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.created.WithLabelValues("etf")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failed.WithLabelValues(ReasonInvalid)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.failed.WithLabelValues(ReasonStorage)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookup.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookup.WithLabelValues("miss")))
}

func TestObserveCalculation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveCalculation(200 * time.Microsecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "comparison_calculation_duration_seconds" {
			continue
		}
		found = true
		h := mf.GetMetric()[0].GetHistogram()
		assert.Equal(t, uint64(1), h.GetSampleCount())
		assert.InDelta(t, 0.0002, h.GetSampleSum(), 1e-9)
	}
	assert.True(t, found, "histogram not registered")
}

func TestNewOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
