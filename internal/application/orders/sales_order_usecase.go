package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/internal/domain/status"
)

// SalesOrderUseCase flujos de la orden de venta.
type SalesOrderUseCase struct {
	svc *inventory.Service
}

// NewSalesOrderUseCase construye el caso de uso.
func NewSalesOrderUseCase(svc *inventory.Service) *SalesOrderUseCase {
	return &SalesOrderUseCase{svc: svc}
}

// CreateSalesOrderInput alta de una orden de venta.
type CreateSalesOrderInput struct {
	Code       string
	CustomerID string
	Products   []LineInput
	Materials  []LineInput
	CreatedBy  string
}

// Create registra la orden en PROCESSING.
func (uc *SalesOrderUseCase) Create(ctx context.Context, in CreateSalesOrderInput) (*entity.SalesOrder, error) {
	if len(in.Products)+len(in.Materials) == 0 {
		return nil, fmt.Errorf("orden sin líneas: %w", domain.ErrInvalidInput)
	}
	for _, l := range in.Products {
		if !l.Item.IsProduct() {
			return nil, fmt.Errorf("línea de producto con %s: %w", l.Item, domain.ErrInvalidInput)
		}
	}
	for _, l := range in.Materials {
		if !l.Item.IsMaterial() {
			return nil, fmt.Errorf("línea de material con %s: %w", l.Item, domain.ErrInvalidInput)
		}
	}
	now := uc.svc.Now()
	order := &entity.SalesOrder{
		ID:         uuid.New().String(),
		Code:       documentCode(in.Code, "SO"),
		CustomerID: in.CustomerID,
		Status:     entity.SalesOrderProcessing,
		CreatedBy:  in.CreatedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	order.ProductLines = newDemandLines(order.ID, in.Products)
	order.MaterialLines = newDemandLines(order.ID, in.Materials)

	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		if err := validateLines(ctx, r, in.Products); err != nil {
			return err
		}
		if err := validateLines(ctx, r, in.Materials); err != nil {
			return err
		}
		return r.SalesOrders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Get devuelve la orden o ErrNotFound.
func (uc *SalesOrderUseCase) Get(ctx context.Context, id string) (*entity.SalesOrder, error) {
	var order *entity.SalesOrder
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		var err error
		order, err = r.SalesOrders.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("orden de venta %s: %w", id, domain.ErrNotFound)
	}
	return order, nil
}

// ReserveProducts reserva lo pendiente de cada línea de producto (política estricta: si falta
// stock de cualquier línea no se reserva nada). warehouseID vacío = todas las bodegas.
func (uc *SalesOrderUseCase) ReserveProducts(ctx context.Context, orderID, warehouseID string) ([]*inventory.AllocationResult, error) {
	return uc.reserveLines(ctx, orderID, warehouseID, true, inventory.ShortfallFail)
}

// PrepareMaterial reserva lo pendiente de cada línea de material; lo que no alcance queda sin
// cubrir y se reporta en el resultado.
func (uc *SalesOrderUseCase) PrepareMaterial(ctx context.Context, orderID, warehouseID string) ([]*inventory.AllocationResult, error) {
	return uc.reserveLines(ctx, orderID, warehouseID, false, inventory.ShortfallAccept)
}

func (uc *SalesOrderUseCase) reserveLines(ctx context.Context, orderID, warehouseID string, products bool, policy inventory.ShortfallPolicy) ([]*inventory.AllocationResult, error) {
	var results []*inventory.AllocationResult
	var items []entity.StockItem
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		results, items = nil, nil
		if warehouseID != "" {
			if err := inventory.RequireWarehouse(ctx, r, warehouseID); err != nil {
				return err
			}
		}
		order, err := r.SalesOrders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("orden de venta %s: %w", orderID, domain.ErrNotFound)
		}
		if order.Status != entity.SalesOrderProcessing && order.Status != entity.SalesOrderPreparingMaterial {
			return fmt.Errorf("orden %s en %s no admite reservas: %w", order.ID, order.Status, domain.ErrConflict)
		}
		lines := order.MaterialLines
		if products {
			lines = order.ProductLines
		}
		pool := reservedPool{r: r, orderID: order.ID, left: map[entity.StockItem]decimal.Decimal{}}
		for _, line := range lines {
			need, err := pool.pending(ctx, line)
			if err != nil {
				return err
			}
			if !need.IsPositive() {
				continue
			}
			res, err := uc.svc.ReserveInTx(ctx, r, inventory.ReserveInput{
				Item:          line.Item,
				WarehouseID:   warehouseID,
				Quantity:      need,
				DemandOrderID: order.ID,
				Policy:        &policy,
			})
			if err != nil {
				return err
			}
			results = append(results, res)
			items = append(items, line.Item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.svc.InvalidateCache(ctx, items...)
	return results, nil
}

// reservedPool reparte lo ya reservado para la orden entre sus líneas, en orden, de modo que
// varias líneas del mismo ítem no cuenten dos veces la misma reserva.
type reservedPool struct {
	r       inventory.Repositories
	orderID string
	left    map[entity.StockItem]decimal.Decimal
}

// pending lo que falta por reservar para la línea: su pendiente menos la parte de la reserva
// del ítem que no cubrieron las líneas anteriores.
func (p *reservedPool) pending(ctx context.Context, line *entity.DemandLine) (decimal.Decimal, error) {
	have, ok := p.left[line.Item]
	if !ok {
		reserved, err := p.r.Ledger.List(ctx, repository.LedgerFilter{
			Item:          line.Item,
			Pool:          entity.PoolReserved,
			DemandOrderID: p.orderID,
		})
		if err != nil {
			return decimal.Zero, err
		}
		for _, rec := range reserved {
			have = have.Add(rec.Quantity)
		}
	}
	covered := decimal.Max(decimal.Min(have, line.Remaining), decimal.Zero)
	p.left[line.Item] = have.Sub(covered)
	return line.Remaining.Sub(covered), nil
}

// Cancel cancela la orden y libera todas sus reservas (cantidad requerida original de cada línea).
func (uc *SalesOrderUseCase) Cancel(ctx context.Context, orderID string) (*inventory.ReleaseResult, error) {
	var res *inventory.ReleaseResult
	var items []entity.StockItem
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		order, err := r.SalesOrders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("orden de venta %s: %w", orderID, domain.ErrNotFound)
		}
		if err := status.SalesOrders.Transition(order.Status, entity.SalesOrderCancelled); err != nil {
			return err
		}
		lines := make([]inventory.ReleaseLine, 0, len(order.Lines()))
		items = items[:0]
		for _, l := range order.Lines() {
			lines = append(lines, inventory.ReleaseLine{Item: l.Item, Quantity: l.Required})
			items = append(items, l.Item)
		}
		res, err = uc.svc.ReleaseInTx(ctx, r, inventory.ReleaseInput{DemandOrderID: order.ID, Lines: lines})
		if err != nil {
			return err
		}
		order.Status = entity.SalesOrderCancelled
		order.UpdatedAt = uc.svc.Now()
		return r.SalesOrders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	uc.svc.InvalidateCache(ctx, items...)
	return res, nil
}

// DisplayStatus estado a mostrar, con las sub-etiquetas derivadas mientras está en PROCESSING.
func (uc *SalesOrderUseCase) DisplayStatus(ctx context.Context, orderID string) (string, error) {
	var label string
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		order, err := r.SalesOrders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("orden de venta %s: %w", orderID, domain.ErrNotFound)
		}
		requests, err := r.PurchaseRequests.ListBySalesOrder(ctx, orderID)
		if err != nil {
			return err
		}
		label = status.DisplayLabel(order, requests)
		return nil
	})
	return label, err
}
