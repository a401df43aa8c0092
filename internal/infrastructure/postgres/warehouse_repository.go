package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var (
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
	_ repository.ItemRepository      = (*ItemRepo)(nil)
)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create persiste una nueva bodega.
func (r *WarehouseRepo) Create(ctx context.Context, warehouse *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, code, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		warehouse.ID, warehouse.Code, warehouse.Name, warehouse.Address,
		warehouse.CreatedAt, warehouse.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("bodega %s: %w", warehouse.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	query := `
		SELECT id, code, name, address, created_at, updated_at
		FROM warehouses WHERE id = $1`
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, query, id).Scan(
		&w.ID, &w.Code, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// List lista todas las bodegas por nombre.
func (r *WarehouseRepo) List(ctx context.Context) ([]*entity.Warehouse, error) {
	query := `
		SELECT id, code, name, address, created_at, updated_at
		FROM warehouses ORDER BY name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.Code, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}

// ItemRepo catálogo de materiales y productos.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador del catálogo.
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Exists indica si el material o producto está en el catálogo.
func (r *ItemRepo) Exists(ctx context.Context, item entity.StockItem) (bool, error) {
	table := "products"
	if item.IsMaterial() {
		table = "materials"
	}
	var ok bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, item.ID).Scan(&ok); err != nil {
		return false, fmt.Errorf("item exists: %w", err)
	}
	return ok, nil
}

// CreateMaterial persiste un material.
func (r *ItemRepo) CreateMaterial(ctx context.Context, m *entity.MaterialItem) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO materials (id, code, name, unit, created_at) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.Code, m.Name, m.Unit, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("material %s: %w", m.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// CreateProduct persiste un producto.
func (r *ItemRepo) CreateProduct(ctx context.Context, p *entity.ProductItem) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO products (id, sku, name, unit, created_at) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.SKU, p.Name, p.Unit, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("producto %s: %w", p.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}
