package entity

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// QuantityScale decimales que admite una cantidad; el almacenamiento usa NUMERIC(18, 4).
const QuantityScale = 4

// CheckScale rechaza cantidades con más de QuantityScale decimales significativos
// (1.50000 pasa, 0.00004 no).
func CheckScale(q decimal.Decimal) error {
	if !q.Equal(q.Truncate(QuantityScale)) {
		return fmt.Errorf("cantidad %s con más de %d decimales: %w", q, QuantityScale, domain.ErrInvalidInput)
	}
	return nil
}
