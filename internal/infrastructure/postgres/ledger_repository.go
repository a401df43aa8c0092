package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `id, warehouse_id, item_kind, item_id, pool, demand_order_id, quantity, last_updated`

// LedgerRepo registros del libro sobre la tabla inventory_records (usable con pool o tx).
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

func scanRecord(row pgx.Row) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	var kind, itemID, pool string
	if err := row.Scan(&rec.ID, &rec.WarehouseID, &kind, &itemID, &pool, &rec.DemandOrderID, &rec.Quantity, &rec.LastUpdated); err != nil {
		return nil, err
	}
	rec.Item = stockItem(kind, itemID)
	rec.Pool = entity.Pool(pool)
	return &rec, nil
}

func (r *LedgerRepo) find(ctx context.Context, key entity.LedgerKey, lock bool) (*entity.InventoryRecord, error) {
	query := `SELECT ` + ledgerColumns + ` FROM inventory_records
		WHERE warehouse_id = $1 AND item_kind = $2 AND item_id = $3 AND pool = $4 AND demand_order_id = $5`
	if lock {
		query += ` FOR UPDATE`
	}
	rec, err := scanRecord(r.q.QueryRow(ctx, query,
		key.WarehouseID, string(key.Item.Kind), key.Item.ID, string(key.Pool), key.DemandOrderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return rec, nil
}

// Find registro por llave o nil.
func (r *LedgerRepo) Find(ctx context.Context, key entity.LedgerKey) (*entity.InventoryRecord, error) {
	return r.find(ctx, key, false)
}

// FindForUpdate registro por llave con bloqueo de fila.
func (r *LedgerRepo) FindForUpdate(ctx context.Context, key entity.LedgerKey) (*entity.InventoryRecord, error) {
	return r.find(ctx, key, true)
}

func (r *LedgerRepo) list(ctx context.Context, f repository.LedgerFilter, lock bool) ([]*entity.InventoryRecord, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Item.Kind != "" {
		add("item_kind = $%d", string(f.Item.Kind))
	}
	if f.Item.ID != "" {
		add("item_id = $%d", f.Item.ID)
	}
	if f.Pool != "" {
		add("pool = $%d", string(f.Pool))
	}
	if f.WarehouseID != "" {
		add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.DemandOrderID != "" {
		add("demand_order_id = $%d", f.DemandOrderID)
	}
	query := `SELECT ` + ledgerColumns + ` FROM inventory_records`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`
	if lock {
		query += ` FOR UPDATE`
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory records: %w", err)
	}
	defer rows.Close()
	var out []*entity.InventoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// List registros del filtro ordenados por ID.
func (r *LedgerRepo) List(ctx context.Context, f repository.LedgerFilter) ([]*entity.InventoryRecord, error) {
	return r.list(ctx, f, false)
}

// ListForUpdate registros del filtro por ID ascendente, bloqueados en ese orden.
func (r *LedgerRepo) ListForUpdate(ctx context.Context, f repository.LedgerFilter) ([]*entity.InventoryRecord, error) {
	return r.list(ctx, f, true)
}

// AddQuantity upsert atómico: crea el registro o suma delta al existente. El CHECK de la tabla
// rechaza un resultado negativo.
func (r *LedgerRepo) AddQuantity(ctx context.Context, key entity.LedgerKey, delta decimal.Decimal, at time.Time) (*entity.InventoryRecord, error) {
	query := `
		INSERT INTO inventory_records (warehouse_id, item_kind, item_id, pool, demand_order_id, quantity, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ON CONSTRAINT inventory_records_key
		DO UPDATE SET quantity = inventory_records.quantity + EXCLUDED.quantity,
		              last_updated = EXCLUDED.last_updated
		RETURNING ` + ledgerColumns
	rec, err := scanRecord(r.q.QueryRow(ctx, query,
		key.WarehouseID, string(key.Item.Kind), key.Item.ID, string(key.Pool), key.DemandOrderID, delta, at))
	if err != nil {
		return nil, fmt.Errorf("upsert inventory record: %w", err)
	}
	return rec, nil
}

// Save persiste cantidad y fecha de un registro existente.
func (r *LedgerRepo) Save(ctx context.Context, rec *entity.InventoryRecord) error {
	if rec.Quantity.IsNegative() {
		return fmt.Errorf("registro %d con cantidad negativa: %w", rec.ID, domain.ErrInvalidInput)
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE inventory_records SET quantity = $2, last_updated = $3 WHERE id = $1`,
		rec.ID, rec.Quantity, rec.LastUpdated)
	if err != nil {
		return fmt.Errorf("update inventory record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("registro %d: %w", rec.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete elimina un registro.
func (r *LedgerRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_records WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete inventory record: %w", err)
	}
	return nil
}

// SumAvailable suma del pool AVAILABLE del ítem en todas las bodegas.
func (r *LedgerRepo) SumAvailable(ctx context.Context, item entity.StockItem) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0) FROM inventory_records
		WHERE item_kind = $1 AND item_id = $2 AND pool = 'AVAILABLE'`,
		string(item.Kind), item.ID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum available: %w", err)
	}
	return total, nil
}
