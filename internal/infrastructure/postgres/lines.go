package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// Dueños de supply_lines.
const (
	ownerPurchaseRequest = "PURCHASE_REQUEST"
	ownerPurchaseOrder   = "PURCHASE_ORDER"
	ownerOutsourcing     = "OUTSOURCING"
)

// Grupos de demand_lines.
const (
	groupProduct  = "PRODUCT"
	groupMaterial = "MATERIAL"
)

// upsertSupplyLines inserta las líneas nuevas y actualiza contadores de las existentes.
func upsertSupplyLines(ctx context.Context, q Querier, owner, orderID string, lines []*entity.SupplyLine) error {
	query := `
		INSERT INTO supply_lines (id, owner_kind, order_id, position, item_kind, item_id, ordered, received, remaining)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			ordered = EXCLUDED.ordered, received = EXCLUDED.received, remaining = EXCLUDED.remaining`
	for i, l := range lines {
		if _, err := q.Exec(ctx, query, l.ID, owner, orderID, i, string(l.Item.Kind), l.Item.ID,
			l.Ordered, l.Received, l.Remaining); err != nil {
			return fmt.Errorf("upsert supply line: %w", err)
		}
	}
	return nil
}

func loadSupplyLines(ctx context.Context, q Querier, owner, orderID string, lock bool) ([]*entity.SupplyLine, error) {
	query := `
		SELECT id, order_id, item_kind, item_id, ordered, received, remaining
		FROM supply_lines WHERE owner_kind = $1 AND order_id = $2 ORDER BY position`
	if lock {
		query += ` FOR UPDATE`
	}
	rows, err := q.Query(ctx, query, owner, orderID)
	if err != nil {
		return nil, fmt.Errorf("list supply lines: %w", err)
	}
	defer rows.Close()
	var out []*entity.SupplyLine
	for rows.Next() {
		var l entity.SupplyLine
		var kind, itemID string
		if err := rows.Scan(&l.ID, &l.OrderID, &kind, &itemID, &l.Ordered, &l.Received, &l.Remaining); err != nil {
			return nil, fmt.Errorf("scan supply line: %w", err)
		}
		l.Item = stockItem(kind, itemID)
		out = append(out, &l)
	}
	return out, rows.Err()
}

func upsertDemandLines(ctx context.Context, q Querier, orderID, group string, lines []*entity.DemandLine) error {
	query := `
		INSERT INTO demand_lines (id, order_id, line_group, position, item_kind, item_id, required, received, remaining)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET received = EXCLUDED.received, remaining = EXCLUDED.remaining`
	for i, l := range lines {
		if _, err := q.Exec(ctx, query, l.ID, orderID, group, i, string(l.Item.Kind), l.Item.ID,
			l.Required, l.Received, l.Remaining); err != nil {
			return fmt.Errorf("upsert demand line: %w", err)
		}
	}
	return nil
}

// loadDemandLines devuelve (productos, materiales) de la orden.
func loadDemandLines(ctx context.Context, q Querier, orderID string, lock bool) ([]*entity.DemandLine, []*entity.DemandLine, error) {
	query := `
		SELECT id, order_id, line_group, item_kind, item_id, required, received, remaining
		FROM demand_lines WHERE order_id = $1 ORDER BY line_group DESC, position`
	if lock {
		query += ` FOR UPDATE`
	}
	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("list demand lines: %w", err)
	}
	defer rows.Close()
	var products, materials []*entity.DemandLine
	for rows.Next() {
		var l entity.DemandLine
		var group, kind, itemID string
		if err := rows.Scan(&l.ID, &l.OrderID, &group, &kind, &itemID, &l.Required, &l.Received, &l.Remaining); err != nil {
			return nil, nil, fmt.Errorf("scan demand line: %w", err)
		}
		l.Item = stockItem(kind, itemID)
		if group == groupMaterial {
			materials = append(materials, &l)
		} else {
			products = append(products, &l)
		}
	}
	return products, materials, rows.Err()
}
