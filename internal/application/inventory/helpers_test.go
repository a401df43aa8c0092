package inventory_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
	"github.com/jhoicas/Inventario-ledger/pkg/metrics"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	whA = "WH-A"
	whB = "WH-B"
)

var (
	matM  = entity.Material("MAT-M")
	matN  = entity.Material("MAT-N")
	prodP = entity.Product("PROD-P")
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// clock reloj controlable por el test.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// fakeCache caché en memoria con versión por ítem; cuenta invalidaciones. beforeSet, si está,
// corre justo antes de cada SetTotal (simula una mutación concurrente).
type fakeCache struct {
	mu          sync.Mutex
	totals      map[entity.StockItem]decimal.Decimal
	versions    map[entity.StockItem]int64
	invalidated []entity.StockItem
	beforeSet   func()
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		totals:   make(map[entity.StockItem]decimal.Decimal),
		versions: make(map[entity.StockItem]int64),
	}
}

func (c *fakeCache) GetTotal(_ context.Context, item entity.StockItem) (inventory.CachedTotal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.totals[item]
	return inventory.CachedTotal{Total: v, Hit: ok, Version: c.versions[item]}, nil
}

func (c *fakeCache) SetTotal(_ context.Context, item entity.StockItem, qty decimal.Decimal, version int64) error {
	if hook := c.beforeSet; hook != nil {
		c.beforeSet = nil
		hook()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[item] != version {
		return nil
	}
	c.totals[item] = qty
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, items ...entity.StockItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range items {
		delete(c.totals, it)
		c.versions[it]++
		c.invalidated = append(c.invalidated, it)
	}
	return nil
}

type fixture struct {
	store   *memory.Store
	svc     *inventory.Service
	cache   *fakeCache
	clock   *clock
	logs    *bytes.Buffer
	metrics *metrics.Metrics
}

// newFixture store con dos bodegas, dos materiales y un producto; stock según el seed dado.
func newFixture(t *testing.T, stock ...memory.SeedStock) *fixture {
	t.Helper()
	store := memory.NewStore()
	err := store.Load(context.Background(), memory.Seed{
		Warehouses: []*entity.Warehouse{{ID: whA, Name: "Principal"}, {ID: whB, Name: "Secundaria"}},
		Materials:  []*entity.MaterialItem{{ID: matM.ID, Name: "Tela"}, {ID: matN.ID, Name: "Hilo"}},
		Products:   []*entity.ProductItem{{ID: prodP.ID, SKU: "P-001", Name: "Camisa"}},
		Stock:      stock,
	})
	require.NoError(t, err)

	f := &fixture{
		store:   store,
		cache:   newFakeCache(),
		clock:   &clock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		logs:    &bytes.Buffer{},
		metrics: metrics.New(prometheus.NewRegistry()),
	}
	f.svc = inventory.NewService(store, inventory.Options{
		Cache:   f.cache,
		Metrics: f.metrics,
		Logger:  logger.NewWithWriter(f.logs, "debug"),
		Clock:   f.clock.Now,
	})
	return f
}

func available(wh string, item entity.StockItem, qty int64) memory.SeedStock {
	return memory.SeedStock{Key: entity.AvailableKey(wh, item), Quantity: d(qty)}
}

func reserved(wh string, item entity.StockItem, demand string, qty int64) memory.SeedStock {
	return memory.SeedStock{Key: entity.ReservedKey(wh, item, demand), Quantity: d(qty)}
}

// qty cantidad del registro con esa llave (cero si no existe) y si existe.
func (f *fixture) qty(key entity.LedgerKey) (decimal.Decimal, bool) {
	for _, r := range f.store.Records() {
		if r.Key() == key {
			return r.Quantity, true
		}
	}
	return decimal.Zero, false
}

// total AVAILABLE + RESERVED (cualquier orden) del ítem en la bodega.
func (f *fixture) total(wh string, item entity.StockItem) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range f.store.Records() {
		if r.WarehouseID == wh && r.Item == item {
			sum = sum.Add(r.Quantity)
		}
	}
	return sum
}

func (f *fixture) requireNoNegative(t *testing.T) {
	t.Helper()
	for _, r := range f.store.Records() {
		require.False(t, r.Quantity.IsNegative(), "registro %d negativo: %s", r.ID, r.Quantity)
	}
}

// run ejecuta fn en una transacción del store (para sembrar órdenes).
func (f *fixture) run(t *testing.T, fn func(r inventory.Repositories) error) {
	t.Helper()
	require.NoError(t, f.store.Run(context.Background(), fn))
}

func (f *fixture) salesOrder(t *testing.T, id string, products, materials map[entity.StockItem]int64) *entity.SalesOrder {
	t.Helper()
	o := &entity.SalesOrder{ID: id, Code: id, Status: entity.SalesOrderProcessing}
	n := 0
	mk := func(item entity.StockItem, q int64) *entity.DemandLine {
		n++
		l := &entity.DemandLine{ID: id + "-L" + string(rune('0'+n)), OrderID: id, Item: item, Required: d(q), Received: decimal.Zero}
		l.Recompute()
		return l
	}
	for item, q := range products {
		o.ProductLines = append(o.ProductLines, mk(item, q))
	}
	for item, q := range materials {
		o.MaterialLines = append(o.MaterialLines, mk(item, q))
	}
	f.run(t, func(r inventory.Repositories) error { return r.SalesOrders.Create(context.Background(), o) })
	return o
}

func (f *fixture) getSalesOrder(t *testing.T, id string) *entity.SalesOrder {
	t.Helper()
	var o *entity.SalesOrder
	f.run(t, func(r inventory.Repositories) error {
		var err error
		o, err = r.SalesOrders.GetByID(context.Background(), id)
		return err
	})
	require.NotNil(t, o)
	return o
}

func supplyLine(id string, item entity.StockItem, ordered int64) *entity.SupplyLine {
	l := &entity.SupplyLine{ID: id, Item: item, Ordered: d(ordered), Received: decimal.Zero}
	l.Recompute()
	return l
}

func (f *fixture) purchaseOrder(t *testing.T, po *entity.PurchaseOrder) {
	t.Helper()
	if po.Status == "" {
		po.Status = entity.PurchaseOrderPending
	}
	for _, l := range po.Lines {
		l.OrderID = po.ID
	}
	f.run(t, func(r inventory.Repositories) error { return r.PurchaseOrders.Create(context.Background(), po) })
}

func (f *fixture) getPurchaseOrder(t *testing.T, id string) *entity.PurchaseOrder {
	t.Helper()
	var po *entity.PurchaseOrder
	f.run(t, func(r inventory.Repositories) error {
		var err error
		po, err = r.PurchaseOrders.GetByID(context.Background(), id)
		return err
	})
	require.NotNil(t, po)
	return po
}

func doc(id string, kind entity.DocumentKind) inventory.DocumentRef {
	return inventory.DocumentRef{ID: id, Kind: kind}
}
