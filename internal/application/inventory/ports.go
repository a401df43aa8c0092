package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// Repositories repositorios atados a una misma transacción.
type Repositories struct {
	Ledger           repository.LedgerRepository
	Transactions     repository.TransactionRepository
	Warehouses       repository.WarehouseRepository
	Items            repository.ItemRepository
	SalesOrders      repository.SalesOrderRepository
	PurchaseRequests repository.PurchaseRequestRepository
	PurchaseOrders   repository.PurchaseOrderRepository
	IssueNotes       repository.IssueNoteRepository
	Outsourcing      repository.OutsourcingRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback de todo lo escrito; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}

// CachedTotal lectura de la caché. Version cambia con cada invalidación del ítem.
type CachedTotal struct {
	Total   decimal.Decimal
	Hit     bool
	Version int64
}

// StockCache caché del total disponible por ítem. Los errores de caché nunca hacen fallar la operación.
// SetTotal sólo escribe si la versión del ítem sigue siendo la leída en GetTotal: un total
// calculado antes de una mutación confirmada no sobrevive a su invalidación.
type StockCache interface {
	GetTotal(ctx context.Context, item entity.StockItem) (CachedTotal, error)
	SetTotal(ctx context.Context, item entity.StockItem, qty decimal.Decimal, version int64) error
	Invalidate(ctx context.Context, items ...entity.StockItem) error
}

type nopCache struct{}

func (nopCache) GetTotal(context.Context, entity.StockItem) (CachedTotal, error) {
	return CachedTotal{}, nil
}
func (nopCache) SetTotal(context.Context, entity.StockItem, decimal.Decimal, int64) error { return nil }
func (nopCache) Invalidate(context.Context, ...entity.StockItem) error                    { return nil }
