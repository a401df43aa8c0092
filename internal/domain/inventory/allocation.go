// Package inventory contiene los servicios de dominio puros del libro de stock
// (sin persistencia): recorrido de registros y agrupación por bodega.
package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// Take cantidad tomada de un registro concreto.
type Take struct {
	Record   *entity.InventoryRecord
	Quantity decimal.Decimal
}

// WarehouseQuantity cantidad por bodega.
type WarehouseQuantity struct {
	WarehouseID string
	Quantity    decimal.Decimal
}

// SortByID ordena los registros por ID ascendente (orden de creación), el orden de consumo del libro.
func SortByID(records []*entity.InventoryRecord) {
	sort.SliceStable(records, func(i, j int) bool { return records[i].ID < records[j].ID })
}

// Walk recorre los registros en el orden dado tomando min(cantidad, pendiente) de cada uno
// hasta cubrir need o agotarlos. Devuelve lo tomado y lo que quedó sin cubrir.
// No modifica los registros.
func Walk(records []*entity.InventoryRecord, need decimal.Decimal) ([]Take, decimal.Decimal) {
	remaining := need
	var takes []Take
	for _, rec := range records {
		if !remaining.IsPositive() {
			break
		}
		if !rec.Quantity.IsPositive() {
			continue
		}
		q := decimal.Min(rec.Quantity, remaining)
		takes = append(takes, Take{Record: rec, Quantity: q})
		remaining = remaining.Sub(q)
	}
	return takes, remaining
}

// GroupByWarehouse suma lo tomado por bodega, en orden de primera aparición.
func GroupByWarehouse(takes []Take) []WarehouseQuantity {
	var out []WarehouseQuantity
	idx := make(map[string]int)
	for _, t := range takes {
		wh := t.Record.WarehouseID
		if i, ok := idx[wh]; ok {
			out[i].Quantity = out[i].Quantity.Add(t.Quantity)
			continue
		}
		idx[wh] = len(out)
		out = append(out, WarehouseQuantity{WarehouseID: wh, Quantity: t.Quantity})
	}
	return out
}

// Sum total tomado.
func Sum(takes []Take) decimal.Decimal {
	total := decimal.Zero
	for _, t := range takes {
		total = total.Add(t.Quantity)
	}
	return total
}
