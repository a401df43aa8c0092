package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	List(ctx context.Context) ([]*entity.Warehouse, error)
}

// ItemRepository catálogo de materiales y productos.
type ItemRepository interface {
	Exists(ctx context.Context, item entity.StockItem) (bool, error)
	CreateMaterial(ctx context.Context, m *entity.MaterialItem) error
	CreateProduct(ctx context.Context, p *entity.ProductItem) error
}
