package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// CatalogUseCase alta y consulta de bodegas, materiales y productos.
type CatalogUseCase struct {
	svc *inventory.Service
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(svc *inventory.Service) *CatalogUseCase {
	return &CatalogUseCase{svc: svc}
}

// CreateWarehouse crea una nueva bodega. ID vacío genera un UUID.
func (uc *CatalogUseCase) CreateWarehouse(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("name es requerido: %w", domain.ErrInvalidInput)
	}
	now := uc.svc.Now()
	warehouse := &entity.Warehouse{
		ID:        idOrNew(in.ID),
		Code:      in.Code,
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		return r.Warehouses.Create(ctx, warehouse)
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetWarehouse obtiene una bodega por ID; nil si no existe.
func (uc *CatalogUseCase) GetWarehouse(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	var warehouse *entity.Warehouse
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		var err error
		warehouse, err = r.Warehouses.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// ListWarehouses lista todas las bodegas.
func (uc *CatalogUseCase) ListWarehouses(ctx context.Context) (*dto.WarehouseListResponse, error) {
	var list []*entity.Warehouse
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		var err error
		list, err = r.Warehouses.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{Items: items}, nil
}

// CreateMaterial da de alta una materia prima.
func (uc *CatalogUseCase) CreateMaterial(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("name es requerido: %w", domain.ErrInvalidInput)
	}
	m := &entity.MaterialItem{
		ID:        idOrNew(in.ID),
		Code:      in.Code,
		Name:      in.Name,
		Unit:      in.Unit,
		CreatedAt: uc.svc.Now(),
	}
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		return r.Items.CreateMaterial(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return &dto.ItemResponse{
		ItemRef:   dto.ItemRef{Kind: string(entity.ItemKindMaterial), ID: m.ID},
		Code:      m.Code,
		Name:      m.Name,
		Unit:      m.Unit,
		CreatedAt: m.CreatedAt,
	}, nil
}

// CreateProduct da de alta un producto terminado.
func (uc *CatalogUseCase) CreateProduct(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("name es requerido: %w", domain.ErrInvalidInput)
	}
	p := &entity.ProductItem{
		ID:        idOrNew(in.ID),
		SKU:       in.Code,
		Name:      in.Name,
		Unit:      in.Unit,
		CreatedAt: uc.svc.Now(),
	}
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		return r.Items.CreateProduct(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return &dto.ItemResponse{
		ItemRef:   dto.ItemRef{Kind: string(entity.ItemKindProduct), ID: p.ID},
		Code:      p.SKU,
		Name:      p.Name,
		Unit:      p.Unit,
		CreatedAt: p.CreatedAt,
	}, nil
}

func idOrNew(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.New().String()
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Address:   w.Address,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
