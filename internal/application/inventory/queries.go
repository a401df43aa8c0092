package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// TotalAvailable suma del pool AVAILABLE del ítem en todas las bodegas (lectura a través de la caché).
func (s *Service) TotalAvailable(ctx context.Context, item entity.StockItem) (total decimal.Decimal, err error) {
	ctx, span := s.start(ctx, OpTotalAvailable, item)
	defer func() { s.finish(span, OpTotalAvailable, err) }()

	if err = item.Validate(); err != nil {
		return decimal.Zero, err
	}
	cached, cacheErr := s.cache.GetTotal(ctx, item)
	if cacheErr != nil {
		s.log.Warn().Err(cacheErr).Str("item", item.String()).Msg("lectura de caché falló")
	} else if cached.Hit {
		s.metrics.CacheLookup(true)
		span.SetAttributes(attribute.Bool("ledger.cache_hit", true))
		return cached.Total, nil
	}
	s.metrics.CacheLookup(false)

	err = s.tx.Run(ctx, func(r Repositories) error {
		if err := RequireItem(ctx, r, item); err != nil {
			return err
		}
		var txErr error
		total, txErr = r.Ledger.SumAvailable(ctx, item)
		return txErr
	})
	if err != nil {
		return decimal.Zero, err
	}
	// sin versión leída no se escribe
	if cacheErr != nil {
		return total, nil
	}
	if err := s.cache.SetTotal(ctx, item, total, cached.Version); err != nil {
		s.log.Warn().Err(err).Str("item", item.String()).Msg("escritura de caché falló")
	}
	return total, nil
}

// WarehouseStock existencias de un ítem en una bodega. Usable = Available + Reserved (de la orden consultada).
type WarehouseStock struct {
	WarehouseID string
	Available   decimal.Decimal
	Reserved    decimal.Decimal
	Usable      decimal.Decimal
}

// ByWarehouse desglose por bodega. Con demandOrderID, lo ya reservado para esa orden cuenta como
// utilizable por ella; las reservas de otras órdenes no se muestran.
func (s *Service) ByWarehouse(ctx context.Context, item entity.StockItem, demandOrderID string) (out []WarehouseStock, err error) {
	ctx, span := s.start(ctx, OpByWarehouse, item, attribute.String("ledger.demand_order", demandOrderID))
	defer func() { s.finish(span, OpByWarehouse, err) }()

	if err = item.Validate(); err != nil {
		return nil, err
	}
	var records []*entity.InventoryRecord
	err = s.tx.Run(ctx, func(r Repositories) error {
		if err := RequireItem(ctx, r, item); err != nil {
			return err
		}
		var txErr error
		records, txErr = r.Ledger.List(ctx, repository.LedgerFilter{Item: item})
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return mergeByWarehouse(records, demandOrderID), nil
}

func mergeByWarehouse(records []*entity.InventoryRecord, demandOrderID string) []WarehouseStock {
	byWh := make(map[string]*WarehouseStock)
	for _, rec := range records {
		switch {
		case rec.Pool == entity.PoolAvailable:
		case demandOrderID != "" && rec.DemandOrderID == demandOrderID:
		default:
			continue
		}
		ws, ok := byWh[rec.WarehouseID]
		if !ok {
			ws = &WarehouseStock{WarehouseID: rec.WarehouseID}
			byWh[rec.WarehouseID] = ws
		}
		if rec.Pool == entity.PoolAvailable {
			ws.Available = ws.Available.Add(rec.Quantity)
		} else {
			ws.Reserved = ws.Reserved.Add(rec.Quantity)
		}
		ws.Usable = ws.Available.Add(ws.Reserved)
	}
	out := make([]WarehouseStock, 0, len(byWh))
	for _, ws := range byWh {
		out = append(out, *ws)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out
}

// PeriodInput consulta de movimiento en [From, To). WarehouseID vacío = todas las bodegas.
type PeriodInput struct {
	Item        entity.StockItem
	WarehouseID string
	From        time.Time
	To          time.Time
}

// Movement saldo inicial, entradas, salidas y saldo final del período.
// Closing = Opening + In - Out.
type Movement struct {
	Item    entity.StockItem
	From    time.Time
	To      time.Time
	Opening decimal.Decimal
	In      decimal.Decimal
	Out     decimal.Decimal
	Closing decimal.Decimal
}

// PeriodMovement calcula el movimiento del período sólo a partir del log de transacciones.
func (s *Service) PeriodMovement(ctx context.Context, in PeriodInput) (mv *Movement, err error) {
	ctx, span := s.start(ctx, OpPeriodMovement, in.Item, attribute.String("ledger.warehouse", in.WarehouseID))
	defer func() { s.finish(span, OpPeriodMovement, err) }()

	if err = in.Item.Validate(); err != nil {
		return nil, err
	}
	if in.From.IsZero() || in.To.IsZero() || !in.From.Before(in.To) {
		return nil, fmt.Errorf("rango de fechas inválido: %w", domain.ErrInvalidInput)
	}
	from, to := in.From.UTC(), in.To.UTC()

	err = s.tx.Run(ctx, func(r Repositories) error {
		if err := RequireItem(ctx, r, in.Item); err != nil {
			return err
		}
		if in.WarehouseID != "" {
			if err := RequireWarehouse(ctx, r, in.WarehouseID); err != nil {
				return err
			}
		}
		before, err := r.Transactions.Totals(ctx, repository.MovementFilter{Item: in.Item, WarehouseID: in.WarehouseID, To: &from})
		if err != nil {
			return fmt.Errorf("saldo inicial: %w", err)
		}
		during, err := r.Transactions.Totals(ctx, repository.MovementFilter{Item: in.Item, WarehouseID: in.WarehouseID, From: &from, To: &to})
		if err != nil {
			return fmt.Errorf("movimiento del período: %w", err)
		}
		opening := before.Imports.Sub(before.Exports)
		mv = &Movement{
			Item:    in.Item,
			From:    from,
			To:      to,
			Opening: opening,
			In:      during.Imports,
			Out:     during.Exports,
			Closing: opening.Add(during.Imports).Sub(during.Exports),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mv, nil
}
