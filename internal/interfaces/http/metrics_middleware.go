package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/pkg/metrics"
)

// MetricsMiddleware registra cada request por método, ruta registrada y status.
// Usa la plantilla de la ruta (/api/sales-orders/:id) para no disparar la cardinalidad.
func MetricsMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			path = r.Path
		}
		m.HTTPRequest(c.Method(), path, strconv.Itoa(status), time.Since(start).Seconds())
		return err
	}
}
