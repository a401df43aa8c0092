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

// ReleaseLine ítem y cantidad originalmente requerida a devolver al disponible.
type ReleaseLine struct {
	Item     entity.StockItem
	Quantity decimal.Decimal
}

// ReleaseInput liberación de las reservas de una orden de demanda.
type ReleaseInput struct {
	DemandOrderID string
	Lines         []ReleaseLine
}

func (in ReleaseInput) validate() error {
	if in.DemandOrderID == "" {
		return fmt.Errorf("orden de demanda requerida: %w", domain.ErrInvalidInput)
	}
	for _, l := range in.Lines {
		if err := l.Item.Validate(); err != nil {
			return err
		}
		if l.Quantity.IsNegative() {
			return fmt.Errorf("cantidad a liberar negativa: %w", domain.ErrInvalidInput)
		}
		if err := entity.CheckScale(l.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// ReleasedLine lo liberado para una línea, por bodega.
type ReleasedLine struct {
	Item        entity.StockItem
	Required    decimal.Decimal
	Released    decimal.Decimal
	ByWarehouse []domaininv.WarehouseQuantity
}

// ReleaseShortfall línea cuyo reservado no alcanzó lo requerido. No es un error.
type ReleaseShortfall struct {
	Item     entity.StockItem
	Required decimal.Decimal
	Released decimal.Decimal
}

// ReleaseResult resultado best-effort de una liberación.
type ReleaseResult struct {
	DemandOrderID string
	Lines         []ReleasedLine
	Shortfalls    []ReleaseShortfall
}

// Release devuelve al disponible lo reservado para la orden, línea por línea. En una transacción propia.
func (s *Service) Release(ctx context.Context, in ReleaseInput) (res *ReleaseResult, err error) {
	ctx, span := s.tracer.Start(ctx, "ledger."+OpRelease)
	span.SetAttributes(
		attribute.String("ledger.demand_order", in.DemandOrderID),
		attribute.Int("ledger.lines", len(in.Lines)),
	)
	defer func() { s.finish(span, OpRelease, err) }()

	if err = in.validate(); err != nil {
		return nil, err
	}
	err = s.tx.Run(ctx, func(r Repositories) error {
		var txErr error
		res, txErr = s.ReleaseInTx(ctx, r, in)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, releaseItems(in.Lines)...)
	for _, l := range res.Lines {
		s.metrics.Quantity(OpRelease, string(l.Item.Kind), l.Released.InexactFloat64())
	}
	return res, nil
}

// ReleaseInTx libera con los repositorios de la transacción del caller.
// Cada registro RESERVED de la orden se decrementa en lo exacto consumido y sólo se elimina en cero.
func (s *Service) ReleaseInTx(ctx context.Context, r Repositories, in ReleaseInput) (*ReleaseResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	res := &ReleaseResult{DemandOrderID: in.DemandOrderID}
	now := s.Now()

	for _, line := range in.Lines {
		records, err := r.Ledger.ListForUpdate(ctx, repository.LedgerFilter{
			Item:          line.Item,
			Pool:          entity.PoolReserved,
			DemandOrderID: in.DemandOrderID,
		})
		if err != nil {
			return nil, fmt.Errorf("listar reservado: %w", err)
		}
		domaininv.SortByID(records)

		takes, remaining := domaininv.Walk(records, line.Quantity)
		for _, t := range takes {
			rec := t.Record
			rec.Quantity = rec.Quantity.Sub(t.Quantity)
			rec.LastUpdated = now
			if rec.Quantity.IsZero() {
				if err := r.Ledger.Delete(ctx, rec.ID); err != nil {
					return nil, fmt.Errorf("eliminar reservado: %w", err)
				}
			} else if err := r.Ledger.Save(ctx, rec); err != nil {
				return nil, fmt.Errorf("guardar reservado: %w", err)
			}
		}

		byWarehouse := domaininv.GroupByWarehouse(takes)
		for _, wq := range byWarehouse {
			if _, err := r.Ledger.AddQuantity(ctx, entity.AvailableKey(wq.WarehouseID, line.Item), wq.Quantity, now); err != nil {
				return nil, fmt.Errorf("devolver al disponible: %w", err)
			}
		}

		released := domaininv.Sum(takes)
		res.Lines = append(res.Lines, ReleasedLine{
			Item:        line.Item,
			Required:    line.Quantity,
			Released:    released,
			ByWarehouse: byWarehouse,
		})
		if remaining.IsPositive() {
			res.Shortfalls = append(res.Shortfalls, ReleaseShortfall{Item: line.Item, Required: line.Quantity, Released: released})
			s.metrics.Shortfall(string(line.Item.Kind))
			s.log.Warn().
				Str("demand_order", in.DemandOrderID).
				Str("item_kind", string(line.Item.Kind)).
				Str("item_id", line.Item.ID).
				Str("required", line.Quantity.String()).
				Str("released", released.String()).
				Msg("liberación incompleta: reservado menor que lo requerido")
		}
	}
	return res, nil
}

func releaseItems(lines []ReleaseLine) []entity.StockItem {
	items := make([]entity.StockItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, l.Item)
	}
	return items
}
