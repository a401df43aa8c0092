package orders

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/status"
)

// OutsourcingUseCase retorno de materiales de maquila.
type OutsourcingUseCase struct {
	svc *inventory.Service
}

// NewOutsourcingUseCase construye el caso de uso.
func NewOutsourcingUseCase(svc *inventory.Service) *OutsourcingUseCase {
	return &OutsourcingUseCase{svc: svc}
}

// ReturnInput devolución del maquilador. WarehouseID vacío = bodega de origen del registro.
type ReturnInput struct {
	WarehouseID string
	DocumentID  string
	Lines       []LineInput
	CreatedBy   string
}

// RecordReturn ingresa lo devuelto al disponible, suma a los contadores del registro y lo
// pasa a IN_PROGRESS o COMPLETED según lo esperado. Un registro COMPLETED o CANCELED no admite
// devoluciones y ninguna línea puede devolver más de lo esperado (ErrOverIssue).
func (uc *OutsourcingUseCase) RecordReturn(ctx context.Context, id string, in ReturnInput) (*entity.OutsourcingRecord, error) {
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("devolución sin líneas: %w", domain.ErrInvalidInput)
	}
	var rec *entity.OutsourcingRecord
	var items []entity.StockItem
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		items = items[:0]
		var err error
		rec, err = r.Outsourcing.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("maquila %s: %w", id, domain.ErrNotFound)
		}
		if status.Documents.Terminal(rec.Status) {
			return fmt.Errorf("maquila %s en %s no admite devoluciones: %w", rec.ID, rec.Status, domain.ErrInvalidTransition)
		}
		warehouseID := in.WarehouseID
		if warehouseID == "" {
			warehouseID = rec.WarehouseID
		}
		if err := inventory.RequireWarehouse(ctx, r, warehouseID); err != nil {
			return err
		}
		docID := in.DocumentID
		if docID == "" {
			docID = rec.ID
		}
		for _, l := range in.Lines {
			line := findMaterial(rec, l.Item)
			if line == nil {
				return fmt.Errorf("maquila %s no espera %s: %w", rec.ID, l.Item, domain.ErrInvalidInput)
			}
			if err := inventory.RequireItem(ctx, r, l.Item); err != nil {
				return err
			}
			if line.Received.Add(l.Quantity).GreaterThan(line.Ordered) {
				return fmt.Errorf("maquila %s: devolución de %s supera lo esperado (%s de %s): %w",
					rec.ID, l.Item, line.Received.Add(l.Quantity), line.Ordered, domain.ErrOverIssue)
			}
			if _, err := uc.svc.ReceiveInTx(ctx, r, inventory.ReceiveInput{
				WarehouseID: warehouseID,
				Item:        l.Item,
				Quantity:    l.Quantity,
				Document:    inventory.DocumentRef{ID: docID, Kind: entity.DocumentOutsourcingReturn},
				CreatedBy:   in.CreatedBy,
			}); err != nil {
				return err
			}
			line.AddReceived(l.Quantity)
			items = append(items, l.Item)
		}
		next := status.DocumentAfterReturn(rec.Materials)
		if err := status.Documents.Transition(rec.Status, next); err != nil {
			return err
		}
		rec.Status = next
		rec.UpdatedAt = uc.svc.Now()
		return r.Outsourcing.Update(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	uc.svc.InvalidateCache(ctx, items...)
	return rec, nil
}

// Cancel anula el seguimiento (PENDING o IN_PROGRESS).
func (uc *OutsourcingUseCase) Cancel(ctx context.Context, id string) (*entity.OutsourcingRecord, error) {
	var rec *entity.OutsourcingRecord
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		var err error
		rec, err = r.Outsourcing.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("maquila %s: %w", id, domain.ErrNotFound)
		}
		if err := status.Documents.Transition(rec.Status, entity.DocumentCanceled); err != nil {
			return err
		}
		rec.Status = entity.DocumentCanceled
		rec.UpdatedAt = uc.svc.Now()
		return r.Outsourcing.Update(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Get devuelve el registro o ErrNotFound.
func (uc *OutsourcingUseCase) Get(ctx context.Context, id string) (*entity.OutsourcingRecord, error) {
	var rec *entity.OutsourcingRecord
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		var err error
		rec, err = r.Outsourcing.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("maquila %s: %w", id, domain.ErrNotFound)
	}
	return rec, nil
}

func findMaterial(rec *entity.OutsourcingRecord, item entity.StockItem) *entity.SupplyLine {
	for _, m := range rec.Materials {
		if m.Item == item {
			return m
		}
	}
	return nil
}
