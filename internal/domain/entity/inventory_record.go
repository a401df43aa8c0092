package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pool partición de la cantidad de un ítem en una bodega.
type Pool string

const (
	PoolAvailable Pool = "AVAILABLE" // libre
	PoolReserved  Pool = "RESERVED"  // comprometido con una orden de demanda
)

// LedgerKey identifica de forma única un registro del libro de stock.
// DemandOrderID sólo aplica al pool RESERVED; en AVAILABLE va vacío.
type LedgerKey struct {
	WarehouseID   string
	Item          StockItem
	Pool          Pool
	DemandOrderID string
}

// AvailableKey llave del pool libre de un ítem en una bodega.
func AvailableKey(warehouseID string, item StockItem) LedgerKey {
	return LedgerKey{WarehouseID: warehouseID, Item: item, Pool: PoolAvailable}
}

// ReservedKey llave del pool reservado para una orden de demanda.
func ReservedKey(warehouseID string, item StockItem, demandOrderID string) LedgerKey {
	return LedgerKey{WarehouseID: warehouseID, Item: item, Pool: PoolReserved, DemandOrderID: demandOrderID}
}

// InventoryRecord cantidad actual de un ítem en una bodega y pool.
// ID es monotónico (orden de creación) y define el orden de consumo.
type InventoryRecord struct {
	ID            int64
	WarehouseID   string
	Item          StockItem
	Quantity      decimal.Decimal // nunca negativa
	Pool          Pool
	DemandOrderID string
	LastUpdated   time.Time
}

// Key devuelve la llave única del registro.
func (r *InventoryRecord) Key() LedgerKey {
	return LedgerKey{WarehouseID: r.WarehouseID, Item: r.Item, Pool: r.Pool, DemandOrderID: r.DemandOrderID}
}
