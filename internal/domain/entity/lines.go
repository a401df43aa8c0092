package entity

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// DemandLine línea de demanda de una orden de venta (producto o requerimiento de material).
// Remaining = Required - Received; se recalcula en cada creación/actualización.
type DemandLine struct {
	ID        string
	OrderID   string
	Item      StockItem
	Required  decimal.Decimal
	Received  decimal.Decimal
	Remaining decimal.Decimal
}

// Recompute recalcula Remaining.
func (l *DemandLine) Recompute() {
	l.Remaining = l.Required.Sub(l.Received)
}

// AddReceived suma una entrega a la línea; rechaza dejar Received > Required.
func (l *DemandLine) AddReceived(qty decimal.Decimal) error {
	next := l.Received.Add(qty)
	if next.GreaterThan(l.Required) {
		return fmt.Errorf("línea %s: recibido %s supera requerido %s: %w",
			l.ID, next.String(), l.Required.String(), domain.ErrOverIssue)
	}
	l.Received = next
	l.Recompute()
	return nil
}

// FullyReceived indica si la línea ya cubrió lo requerido.
func (l *DemandLine) FullyReceived() bool {
	return l.Received.GreaterThanOrEqual(l.Required)
}

// SupplyLine línea de abastecimiento (solicitud de compra, orden de compra, retorno de maquila).
// Remaining = Ordered - Received, nunca negativa.
type SupplyLine struct {
	ID        string
	OrderID   string
	Item      StockItem
	Ordered   decimal.Decimal
	Received  decimal.Decimal
	Remaining decimal.Decimal
}

// Recompute recalcula Remaining (sobre-recepción deja Remaining en cero).
func (l *SupplyLine) Recompute() {
	l.Remaining = decimal.Max(l.Ordered.Sub(l.Received), decimal.Zero)
}

// AddReceived suma una recepción a la línea.
func (l *SupplyLine) AddReceived(qty decimal.Decimal) {
	l.Received = l.Received.Add(qty)
	l.Recompute()
}

// FullyReceived indica si la línea ya recibió lo pedido.
func (l *SupplyLine) FullyReceived() bool {
	return l.Received.GreaterThanOrEqual(l.Ordered)
}

// SupplyLinesComplete true si todas las líneas están completas (y hay al menos una).
func SupplyLinesComplete(lines []*SupplyLine) bool {
	if len(lines) == 0 {
		return false
	}
	for _, l := range lines {
		if !l.FullyReceived() {
			return false
		}
	}
	return true
}

// FindSupplyLine busca una línea por ID.
func FindSupplyLine(lines []*SupplyLine, id string) *SupplyLine {
	for _, l := range lines {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func cloneSupplyLines(lines []*SupplyLine) []*SupplyLine {
	if lines == nil {
		return nil
	}
	out := make([]*SupplyLine, len(lines))
	for i, l := range lines {
		c := *l
		out[i] = &c
	}
	return out
}

func cloneDemandLines(lines []*DemandLine) []*DemandLine {
	if lines == nil {
		return nil
	}
	out := make([]*DemandLine, len(lines))
	for i, l := range lines {
		c := *l
		out[i] = &c
	}
	return out
}
