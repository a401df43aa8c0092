package metrics_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inventario-ledger/pkg/metrics"
)

func TestOperation_CuentaPorResultado(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.Operation("reserve", nil)
	m.Operation("reserve", nil)
	m.Operation("reserve", errors.New("x"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LedgerOperations.WithLabelValues("reserve", metrics.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LedgerOperations.WithLabelValues("reserve", metrics.OutcomeError)))
}

func TestQuantity_IgnoraNoPositivos(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.Quantity("issue", "MATERIAL", 12)
	m.Quantity("issue", "MATERIAL", 0)
	m.Quantity("issue", "MATERIAL", -3)

	assert.Equal(t, 12.0, testutil.ToFloat64(m.LedgerQuantity.WithLabelValues("issue", "MATERIAL")))
}

func TestMetricsNil_NoEntraEnPanico(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.Operation("release", nil)
		m.Quantity("release", "PRODUCT", 1)
		m.Insufficient("issue")
		m.Shortfall("PRODUCT")
		m.CacheLookup(true)
		m.HTTPRequest("GET", "/health", "200", 0.01)
	})
}

func TestCacheLookup_HitMiss(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
}
