package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.LedgerRepository = (*ledgerRepo)(nil)

type ledgerRepo struct {
	st *state
}

func copyRecord(r *entity.InventoryRecord) *entity.InventoryRecord {
	c := *r
	return &c
}

func (r *ledgerRepo) Find(_ context.Context, key entity.LedgerKey) (*entity.InventoryRecord, error) {
	id, ok := r.st.byKey[key]
	if !ok {
		return nil, nil
	}
	return copyRecord(r.st.records[id]), nil
}

// FindForUpdate: la transacción ya es exclusiva, no hay bloqueo adicional.
func (r *ledgerRepo) FindForUpdate(ctx context.Context, key entity.LedgerKey) (*entity.InventoryRecord, error) {
	return r.Find(ctx, key)
}

func (r *ledgerRepo) ListForUpdate(ctx context.Context, f repository.LedgerFilter) ([]*entity.InventoryRecord, error) {
	return r.List(ctx, f)
}

func (r *ledgerRepo) List(_ context.Context, f repository.LedgerFilter) ([]*entity.InventoryRecord, error) {
	var out []*entity.InventoryRecord
	for _, rec := range r.st.records {
		if f.Item.ID != "" && rec.Item != f.Item {
			continue
		}
		if f.Pool != "" && rec.Pool != f.Pool {
			continue
		}
		if f.WarehouseID != "" && rec.WarehouseID != f.WarehouseID {
			continue
		}
		if f.DemandOrderID != "" && rec.DemandOrderID != f.DemandOrderID {
			continue
		}
		out = append(out, copyRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ledgerRepo) AddQuantity(_ context.Context, key entity.LedgerKey, delta decimal.Decimal, at time.Time) (*entity.InventoryRecord, error) {
	if id, ok := r.st.byKey[key]; ok {
		rec := r.st.records[id]
		next := rec.Quantity.Add(delta)
		if next.IsNegative() {
			return nil, fmt.Errorf("registro %d quedaría negativo: %w", id, domain.ErrInsufficientStock)
		}
		rec.Quantity = next
		rec.LastUpdated = at
		return copyRecord(rec), nil
	}
	if delta.IsNegative() {
		return nil, fmt.Errorf("registro inexistente no admite resta: %w", domain.ErrInsufficientStock)
	}
	r.st.nextRecordID++
	rec := &entity.InventoryRecord{
		ID:            r.st.nextRecordID,
		WarehouseID:   key.WarehouseID,
		Item:          key.Item,
		Quantity:      delta,
		Pool:          key.Pool,
		DemandOrderID: key.DemandOrderID,
		LastUpdated:   at,
	}
	r.st.records[rec.ID] = rec
	r.st.byKey[key] = rec.ID
	return copyRecord(rec), nil
}

func (r *ledgerRepo) Save(_ context.Context, rec *entity.InventoryRecord) error {
	if rec.Quantity.IsNegative() {
		return fmt.Errorf("registro %d con cantidad negativa: %w", rec.ID, domain.ErrInvalidInput)
	}
	cur, ok := r.st.records[rec.ID]
	if !ok {
		return fmt.Errorf("registro %d: %w", rec.ID, domain.ErrNotFound)
	}
	if cur.Key() != rec.Key() {
		return fmt.Errorf("registro %d: la llave no se puede cambiar: %w", rec.ID, domain.ErrConflict)
	}
	r.st.records[rec.ID] = copyRecord(rec)
	return nil
}

func (r *ledgerRepo) Delete(_ context.Context, id int64) error {
	rec, ok := r.st.records[id]
	if !ok {
		return nil
	}
	delete(r.st.byKey, rec.Key())
	delete(r.st.records, id)
	return nil
}

func (r *ledgerRepo) SumAvailable(_ context.Context, item entity.StockItem) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, rec := range r.st.records {
		if rec.Item == item && rec.Pool == entity.PoolAvailable {
			total = total.Add(rec.Quantity)
		}
	}
	return total, nil
}
