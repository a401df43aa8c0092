package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var (
	_ repository.WarehouseRepository = (*warehouseRepo)(nil)
	_ repository.ItemRepository      = (*itemRepo)(nil)
)

type warehouseRepo struct {
	st *state
}

func (r *warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	if _, ok := r.st.warehouses[w.ID]; ok {
		return fmt.Errorf("bodega %s: %w", w.ID, domain.ErrDuplicate)
	}
	c := *w
	r.st.warehouses[w.ID] = &c
	return nil
}

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	w, ok := r.st.warehouses[id]
	if !ok {
		return nil, nil
	}
	c := *w
	return &c, nil
}

func (r *warehouseRepo) List(_ context.Context) ([]*entity.Warehouse, error) {
	out := make([]*entity.Warehouse, 0, len(r.st.warehouses))
	for _, w := range r.st.warehouses {
		c := *w
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type itemRepo struct {
	st *state
}

func (r *itemRepo) Exists(_ context.Context, item entity.StockItem) (bool, error) {
	switch item.Kind {
	case entity.ItemKindMaterial:
		_, ok := r.st.materials[item.ID]
		return ok, nil
	case entity.ItemKindProduct:
		_, ok := r.st.products[item.ID]
		return ok, nil
	}
	return false, nil
}

func (r *itemRepo) CreateMaterial(_ context.Context, m *entity.MaterialItem) error {
	if _, ok := r.st.materials[m.ID]; ok {
		return fmt.Errorf("material %s: %w", m.ID, domain.ErrDuplicate)
	}
	c := *m
	r.st.materials[m.ID] = &c
	return nil
}

func (r *itemRepo) CreateProduct(_ context.Context, p *entity.ProductItem) error {
	if _, ok := r.st.products[p.ID]; ok {
		return fmt.Errorf("producto %s: %w", p.ID, domain.ErrDuplicate)
	}
	c := *p
	r.st.products[p.ID] = &c
	return nil
}
