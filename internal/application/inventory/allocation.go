package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// ShortfallPolicy qué hacer cuando el disponible no cubre una reserva.
type ShortfallPolicy int

const (
	// ShortfallFail aborta con ErrInsufficientStock y revierte la transacción.
	ShortfallFail ShortfallPolicy = iota
	// ShortfallAccept reserva lo que haya y reporta el faltante en el resultado.
	ShortfallAccept
)

func (p ShortfallPolicy) String() string {
	if p == ShortfallAccept {
		return "accept"
	}
	return "fail"
}

// PolicyFor política por defecto según el tipo de ítem: productos estrictos, materiales parciales.
func PolicyFor(item entity.StockItem) ShortfallPolicy {
	if item.IsMaterial() {
		return ShortfallAccept
	}
	return ShortfallFail
}

// ReserveInput entrada de una reserva. WarehouseID vacío considera todas las bodegas.
type ReserveInput struct {
	Item          entity.StockItem
	WarehouseID   string
	Quantity      decimal.Decimal
	DemandOrderID string
	Policy        *ShortfallPolicy // nil = PolicyFor(Item)
}

func (in ReserveInput) validate() error {
	if err := in.Item.Validate(); err != nil {
		return err
	}
	if !in.Quantity.IsPositive() {
		return fmt.Errorf("cantidad a reservar debe ser > 0: %w", domain.ErrInvalidInput)
	}
	if err := entity.CheckScale(in.Quantity); err != nil {
		return err
	}
	if in.DemandOrderID == "" {
		return fmt.Errorf("orden de demanda requerida: %w", domain.ErrInvalidInput)
	}
	return nil
}

func (in ReserveInput) policy() ShortfallPolicy {
	if in.Policy != nil {
		return *in.Policy
	}
	return PolicyFor(in.Item)
}

// AllocationResult resultado de una reserva: lo consumido por bodega (en orden de primer uso) y el faltante.
type AllocationResult struct {
	Item          entity.StockItem
	DemandOrderID string
	Requested     decimal.Decimal
	Allocated     decimal.Decimal
	Shortfall     decimal.Decimal
	ByWarehouse   []domaininv.WarehouseQuantity
}

// Complete indica si la reserva cubrió todo lo solicitado.
func (r *AllocationResult) Complete() bool {
	return !r.Shortfall.IsPositive()
}

// Reserve mueve cantidad del pool AVAILABLE al RESERVED de la orden de demanda, recorriendo los
// registros por ID ascendente. En una transacción propia.
func (s *Service) Reserve(ctx context.Context, in ReserveInput) (res *AllocationResult, err error) {
	ctx, span := s.start(ctx, OpReserve, in.Item,
		attribute.String("ledger.demand_order", in.DemandOrderID),
		attribute.String("ledger.warehouse", in.WarehouseID),
		attribute.String("ledger.quantity", in.Quantity.String()),
	)
	defer func() { s.finish(span, OpReserve, err) }()

	if err = in.validate(); err != nil {
		return nil, err
	}
	err = s.tx.Run(ctx, func(r Repositories) error {
		if in.WarehouseID != "" {
			if err := RequireWarehouse(ctx, r, in.WarehouseID); err != nil {
				return err
			}
		}
		if err := RequireItem(ctx, r, in.Item); err != nil {
			return err
		}
		var txErr error
		res, txErr = s.ReserveInTx(ctx, r, in)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, in.Item)
	s.metrics.Quantity(OpReserve, string(in.Item.Kind), res.Allocated.InexactFloat64())
	return res, nil
}

// ReserveInTx ejecuta la reserva con los repositorios de la transacción del caller.
// Con la política estricta no escribe nada si el disponible no alcanza.
func (s *Service) ReserveInTx(ctx context.Context, r Repositories, in ReserveInput) (*AllocationResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	records, err := r.Ledger.ListForUpdate(ctx, repository.LedgerFilter{
		Item:        in.Item,
		Pool:        entity.PoolAvailable,
		WarehouseID: in.WarehouseID,
	})
	if err != nil {
		return nil, fmt.Errorf("listar disponible: %w", err)
	}
	domaininv.SortByID(records)

	takes, remaining := domaininv.Walk(records, in.Quantity)
	if remaining.IsPositive() && in.policy() == ShortfallFail {
		return nil, fmt.Errorf("reservar %s %s para %s (faltan %s): %w",
			in.Quantity.String(), in.Item, in.DemandOrderID, remaining.String(), domain.ErrInsufficientStock)
	}

	now := s.Now()
	for _, t := range takes {
		rec := t.Record
		rec.Quantity = rec.Quantity.Sub(t.Quantity)
		rec.LastUpdated = now
		if rec.Quantity.IsZero() {
			if err := r.Ledger.Delete(ctx, rec.ID); err != nil {
				return nil, fmt.Errorf("eliminar disponible agotado: %w", err)
			}
		} else if err := r.Ledger.Save(ctx, rec); err != nil {
			return nil, fmt.Errorf("guardar disponible: %w", err)
		}
		key := entity.ReservedKey(rec.WarehouseID, in.Item, in.DemandOrderID)
		if _, err := r.Ledger.AddQuantity(ctx, key, t.Quantity, now); err != nil {
			return nil, fmt.Errorf("sumar reservado: %w", err)
		}
	}

	res := &AllocationResult{
		Item:          in.Item,
		DemandOrderID: in.DemandOrderID,
		Requested:     in.Quantity,
		Allocated:     domaininv.Sum(takes),
		Shortfall:     remaining,
		ByWarehouse:   domaininv.GroupByWarehouse(takes),
	}
	if remaining.IsPositive() {
		s.log.Info().
			Str("demand_order", in.DemandOrderID).
			Str("item_kind", string(in.Item.Kind)).
			Str("item_id", in.Item.ID).
			Str("requested", in.Quantity.String()).
			Str("allocated", res.Allocated.String()).
			Msg("reserva parcial: demanda queda sin cubrir")
	}
	return res, nil
}
