// Package metrics expone los contadores Prometheus del libro de stock y de la API HTTP.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resultado de una operación del libro.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics colectores registrados. Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	LedgerOperations  *prometheus.CounterVec
	LedgerQuantity    *prometheus.CounterVec
	InsufficientStock *prometheus.CounterVec
	ReleaseShortfalls *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registra los colectores en reg (prometheus.DefaultRegisterer en producción,
// prometheus.NewRegistry() en tests).
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LedgerOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Operaciones del libro de stock por tipo y resultado",
			},
			[]string{"operation", "outcome"},
		),
		LedgerQuantity: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_quantity_total",
				Help: "Cantidad movida por operación y tipo de ítem",
			},
			[]string{"operation", "item_kind"},
		),
		InsufficientStock: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_insufficient_stock_total",
				Help: "Operaciones rechazadas por stock insuficiente",
			},
			[]string{"operation"},
		),
		ReleaseShortfalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_release_shortfalls_total",
				Help: "Liberaciones que encontraron menos reservado que lo requerido",
			},
			[]string{"item_kind"},
		),
		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_cache_lookups_total",
				Help: "Consultas a la caché de disponible (hit/miss)",
			},
			[]string{"result"},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total de requests HTTP",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duración de requests HTTP (segundos)",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
			},
			[]string{"method", "path"},
		),
	}
}

// Operation cuenta una operación del libro con su resultado.
func (m *Metrics) Operation(op string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.LedgerOperations.WithLabelValues(op, outcome).Inc()
}

// Quantity suma la cantidad movida por una operación.
func (m *Metrics) Quantity(op, itemKind string, qty float64) {
	if m == nil || qty <= 0 {
		return
	}
	m.LedgerQuantity.WithLabelValues(op, itemKind).Add(qty)
}

// Insufficient cuenta un rechazo por stock insuficiente.
func (m *Metrics) Insufficient(op string) {
	if m == nil {
		return
	}
	m.InsufficientStock.WithLabelValues(op).Inc()
}

// Shortfall cuenta una liberación incompleta.
func (m *Metrics) Shortfall(itemKind string) {
	if m == nil {
		return
	}
	m.ReleaseShortfalls.WithLabelValues(itemKind).Inc()
}

// CacheLookup cuenta un hit o miss de la caché.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// HTTPRequest registra un request atendido.
func (m *Metrics) HTTPRequest(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(seconds)
}
