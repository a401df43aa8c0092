package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// LedgerFilter filtro de registros del libro. Campos vacíos no filtran.
type LedgerFilter struct {
	Item          entity.StockItem
	Pool          entity.Pool
	WarehouseID   string
	DemandOrderID string
}

// LedgerRepository puerto del libro de stock (registros de cantidad actual).
// Find/FindForUpdate devuelven nil, nil si no existe el registro.
type LedgerRepository interface {
	Find(ctx context.Context, key entity.LedgerKey) (*entity.InventoryRecord, error)
	// FindForUpdate bloquea el registro hasta el fin de la transacción (SELECT FOR UPDATE).
	FindForUpdate(ctx context.Context, key entity.LedgerKey) (*entity.InventoryRecord, error)
	// ListForUpdate bloquea y devuelve los registros del filtro ordenados por ID ascendente.
	ListForUpdate(ctx context.Context, f LedgerFilter) ([]*entity.InventoryRecord, error)
	List(ctx context.Context, f LedgerFilter) ([]*entity.InventoryRecord, error)
	// AddQuantity get-or-create + incremento en una sola operación atómica; devuelve el registro resultante.
	AddQuantity(ctx context.Context, key entity.LedgerKey, delta decimal.Decimal, at time.Time) (*entity.InventoryRecord, error)
	Save(ctx context.Context, rec *entity.InventoryRecord) error
	Delete(ctx context.Context, id int64) error
	SumAvailable(ctx context.Context, item entity.StockItem) (decimal.Decimal, error)
}
