// Package orders implementa los flujos de órdenes y documentos (venta, compra, salida, maquila)
// sobre el motor del libro de stock, compartiendo su transacción.
package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/status"
)

// LineInput ítem y cantidad de una línea nueva.
type LineInput struct {
	Item     entity.StockItem
	Quantity decimal.Decimal
}

func validateLines(ctx context.Context, r inventory.Repositories, lines []LineInput) error {
	for _, l := range lines {
		if err := inventory.RequireItem(ctx, r, l.Item); err != nil {
			return err
		}
		if !l.Quantity.IsPositive() {
			return fmt.Errorf("cantidad de %s debe ser > 0: %w", l.Item, domain.ErrInvalidInput)
		}
		if err := entity.CheckScale(l.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func newDemandLines(orderID string, lines []LineInput) []*entity.DemandLine {
	out := make([]*entity.DemandLine, 0, len(lines))
	for _, l := range lines {
		d := &entity.DemandLine{
			ID:       uuid.New().String(),
			OrderID:  orderID,
			Item:     l.Item,
			Required: l.Quantity,
			Received: decimal.Zero,
		}
		d.Recompute()
		out = append(out, d)
	}
	return out
}

func newSupplyLines(orderID string, lines []LineInput) []*entity.SupplyLine {
	out := make([]*entity.SupplyLine, 0, len(lines))
	for _, l := range lines {
		s := &entity.SupplyLine{
			ID:       uuid.New().String(),
			OrderID:  orderID,
			Item:     l.Item,
			Ordered:  l.Quantity,
			Received: decimal.Zero,
		}
		s.Recompute()
		out = append(out, s)
	}
	return out
}

// documentCode usa el código dado o genera uno con prefijo.
func documentCode(code, prefix string) string {
	if code != "" {
		return code
	}
	return prefix + "-" + strings.ToUpper(uuid.New().String()[:8])
}

// recomputeSalesOrder re-deriva el estado de la orden de venta a partir de sus solicitudes de compra.
func recomputeSalesOrder(ctx context.Context, svc *inventory.Service, r inventory.Repositories, salesOrderID string) error {
	if salesOrderID == "" {
		return nil
	}
	order, err := r.SalesOrders.GetForUpdate(ctx, salesOrderID)
	if err != nil {
		return fmt.Errorf("cargar orden de venta: %w", err)
	}
	if order == nil {
		return fmt.Errorf("orden de venta %s: %w", salesOrderID, domain.ErrNotFound)
	}
	requests, err := r.PurchaseRequests.ListBySalesOrder(ctx, salesOrderID)
	if err != nil {
		return fmt.Errorf("listar solicitudes: %w", err)
	}
	next := status.SalesOrderAfterRequests(order.Status, requests)
	if next == order.Status {
		return nil
	}
	if err := status.SalesOrders.Transition(order.Status, next); err != nil {
		return err
	}
	svc.Logger().Info().
		Str("sales_order", order.ID).
		Str("from", string(order.Status)).
		Str("to", string(next)).
		Msg("orden de venta recalculada por solicitudes de compra")
	order.Status = next
	order.UpdatedAt = svc.Now()
	return r.SalesOrders.Update(ctx, order)
}
