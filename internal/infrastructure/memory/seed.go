package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// Seed datos iniciales para el modo de desarrollo y los tests.
type Seed struct {
	Warehouses []*entity.Warehouse
	Materials  []*entity.MaterialItem
	Products   []*entity.ProductItem
	Stock      []SeedStock
}

// SeedStock cantidad inicial en un pool. Los registros se crean en el orden dado (define sus IDs).
type SeedStock struct {
	Key      entity.LedgerKey
	Quantity decimal.Decimal
}

// Load aplica el seed en una transacción.
func (s *Store) Load(ctx context.Context, seed Seed) error {
	now := time.Now().UTC()
	return s.Run(ctx, func(r inventory.Repositories) error {
		for _, w := range seed.Warehouses {
			if w.CreatedAt.IsZero() {
				w.CreatedAt, w.UpdatedAt = now, now
			}
			if err := r.Warehouses.Create(ctx, w); err != nil {
				return err
			}
		}
		for _, m := range seed.Materials {
			if err := r.Items.CreateMaterial(ctx, m); err != nil {
				return err
			}
		}
		for _, p := range seed.Products {
			if err := r.Items.CreateProduct(ctx, p); err != nil {
				return err
			}
		}
		for _, st := range seed.Stock {
			if _, err := r.Ledger.AddQuantity(ctx, st.Key, st.Quantity, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// Records copia de todos los registros del libro ordenados por ID.
func (s *Store) Records() []*entity.InventoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, _ := (&ledgerRepo{st: s.state}).List(context.Background(), repository.LedgerFilter{})
	return recs
}

// Transactions copia del log de movimientos en orden de inserción.
func (s *Store) Transactions() []*entity.TransactionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.TransactionRecord, len(s.state.transactions))
	for i, tx := range s.state.transactions {
		c := *tx
		out[i] = &c
	}
	return out
}

// DemoSeed datos de arranque del modo memory: dos bodegas, una tela, un hilo y una camisa.
func DemoSeed() Seed {
	tela, hilo, camisa := entity.Material("MAT-TELA"), entity.Material("MAT-HILO"), entity.Product("PROD-CAMISA")
	return Seed{
		Warehouses: []*entity.Warehouse{
			{ID: "WH-PRINCIPAL", Code: "PRI", Name: "Bodega principal"},
			{ID: "WH-TALLER", Code: "TAL", Name: "Taller"},
		},
		Materials: []*entity.MaterialItem{
			{ID: tela.ID, Code: "TELA-01", Name: "Tela algodón", Unit: "m"},
			{ID: hilo.ID, Code: "HILO-01", Name: "Hilo poliéster", Unit: "cono"},
		},
		Products: []*entity.ProductItem{
			{ID: camisa.ID, SKU: "CAM-001", Name: "Camisa manga larga", Unit: "und"},
		},
		Stock: []SeedStock{
			{Key: entity.AvailableKey("WH-PRINCIPAL", tela), Quantity: decimal.NewFromInt(500)},
			{Key: entity.AvailableKey("WH-TALLER", tela), Quantity: decimal.NewFromInt(120)},
			{Key: entity.AvailableKey("WH-PRINCIPAL", hilo), Quantity: decimal.NewFromInt(40)},
			{Key: entity.AvailableKey("WH-PRINCIPAL", camisa), Quantity: decimal.NewFromInt(25)},
		},
	}
}
