package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Issue
// ──────────────────────────────────────────────────────────────────────────────

func TestIssue_ReservaYDespachoDeMaterialDeUnaOrden(t *testing.T) {
	f := newFixture(t, available(whA, matM, 20))
	ctx := context.Background()
	f.salesOrder(t, "S1", nil, map[entity.StockItem]int64{matM: 12})

	_, err := f.svc.Reserve(ctx, inventory.ReserveInput{Item: matM, Quantity: d(12), DemandOrderID: "S1"})
	require.NoError(t, err)
	q, _ := f.qty(entity.AvailableKey(whA, matM))
	assert.True(t, q.Equal(d(8)))
	q, _ = f.qty(entity.ReservedKey(whA, matM, "S1"))
	assert.True(t, q.Equal(d(12)))

	res, err := f.svc.Issue(ctx, inventory.IssueInput{
		WarehouseID:   whA,
		Item:          matM,
		Quantity:      d(12),
		DemandOrderID: "S1",
		Document:      doc("IN-1", entity.DocumentIssueNote),
		Category:      entity.IssueProduction,
		CreatedBy:     "bodega",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.PoolReserved, res.Pool)
	_, ok := f.qty(entity.ReservedKey(whA, matM, "S1"))
	assert.False(t, ok, "el reservado agotado se elimina")
	q, _ = f.qty(entity.AvailableKey(whA, matM))
	assert.True(t, q.Equal(d(8)))

	txs := f.store.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, entity.DirectionExport, txs[0].Direction)
	assert.True(t, txs[0].Quantity.Equal(d(12)))
	assert.Equal(t, "IN-1", txs[0].SourceDocumentID)
	assert.Equal(t, entity.DocumentIssueNote, txs[0].SourceDocumentKind)

	order := f.getSalesOrder(t, "S1")
	require.Len(t, order.MaterialLines, 1)
	assert.True(t, order.MaterialLines[0].Received.Equal(d(12)))
	assert.True(t, order.MaterialLines[0].Remaining.IsZero())
	assert.Equal(t, entity.SalesOrderCompleted, order.Status)
}

func TestIssue_SinReservaSuficienteUsaElDisponible(t *testing.T) {
	f := newFixture(t, available(whA, prodP, 10), reserved(whA, prodP, "S1", 2))
	f.salesOrder(t, "S1", map[entity.StockItem]int64{prodP: 10}, nil)

	res, err := f.svc.Issue(context.Background(), inventory.IssueInput{
		WarehouseID: whA, Item: prodP, Quantity: d(5), DemandOrderID: "S1",
		Document: doc("IN-1", entity.DocumentIssueNote),
	})

	require.NoError(t, err)
	assert.Equal(t, entity.PoolAvailable, res.Pool)
	q, _ := f.qty(entity.AvailableKey(whA, prodP))
	assert.True(t, q.Equal(d(5)))
	q, _ = f.qty(entity.ReservedKey(whA, prodP, "S1"))
	assert.True(t, q.Equal(d(2)), "el reservado insuficiente no se toca")
}

func TestIssue_DisponibleEnCeroSeConserva(t *testing.T) {
	f := newFixture(t, available(whA, prodP, 4))

	res, err := f.svc.Issue(context.Background(), inventory.IssueInput{
		WarehouseID: whA, Item: prodP, Quantity: d(4), Document: doc("IN-1", entity.DocumentIssueNote),
	})

	require.NoError(t, err)
	assert.True(t, res.Record.Quantity.IsZero())
	q, ok := f.qty(entity.AvailableKey(whA, prodP))
	require.True(t, ok)
	assert.True(t, q.IsZero())
}

func TestIssue_StockInsuficienteNoAplicaNada(t *testing.T) {
	f := newFixture(t, available(whA, prodP, 3))

	_, err := f.svc.Issue(context.Background(), inventory.IssueInput{
		WarehouseID: whA, Item: prodP, Quantity: d(5), Document: doc("IN-1", entity.DocumentIssueNote),
	})

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	q, _ := f.qty(entity.AvailableKey(whA, prodP))
	assert.True(t, q.Equal(d(3)))
	assert.Empty(t, f.store.Transactions())
}

func TestIssue_SinRegistroEnLaBodega(t *testing.T) {
	f := newFixture(t, available(whB, prodP, 9))

	_, err := f.svc.Issue(context.Background(), inventory.IssueInput{
		WarehouseID: whA, Item: prodP, Quantity: d(1), Document: doc("IN-1", entity.DocumentIssueNote),
	})

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestIssue_TransicionesDeLaOrdenDeVenta(t *testing.T) {
	f := newFixture(t, available(whA, prodP, 20))
	ctx := context.Background()
	f.salesOrder(t, "S1", map[entity.StockItem]int64{prodP: 10}, nil)

	res, err := f.svc.Issue(ctx, inventory.IssueInput{
		WarehouseID: whA, Item: prodP, Quantity: d(4), DemandOrderID: "S1",
		Document: doc("IN-1", entity.DocumentIssueNote),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderPartiallyIssued, res.OrderStatus)
	assert.True(t, res.DemandLine.Remaining.Equal(d(6)))

	res, err = f.svc.Issue(ctx, inventory.IssueInput{
		WarehouseID: whA, Item: prodP, Quantity: d(6), DemandOrderID: "S1",
		Document: doc("IN-2", entity.DocumentIssueNote),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderCompleted, res.OrderStatus)
	assert.Equal(t, entity.SalesOrderCompleted, f.getSalesOrder(t, "S1").Status)
}

func TestIssue_SobreDespachoSeRechazaYRevierte(t *testing.T) {
	f := newFixture(t, available(whA, prodP, 20))
	f.salesOrder(t, "S1", map[entity.StockItem]int64{prodP: 3}, nil)

	_, err := f.svc.Issue(context.Background(), inventory.IssueInput{
		WarehouseID: whA, Item: prodP, Quantity: d(5), DemandOrderID: "S1",
		Document: doc("IN-1", entity.DocumentIssueNote),
	})

	require.ErrorIs(t, err, domain.ErrOverIssue)
	q, _ := f.qty(entity.AvailableKey(whA, prodP))
	assert.True(t, q.Equal(d(20)))
	assert.Empty(t, f.store.Transactions())
	order := f.getSalesOrder(t, "S1")
	assert.Equal(t, entity.SalesOrderProcessing, order.Status)
	assert.True(t, order.ProductLines[0].Received.IsZero())
}

func TestIssue_OrdenInexistenteRevierte(t *testing.T) {
	f := newFixture(t, available(whA, prodP, 5))

	_, err := f.svc.Issue(context.Background(), inventory.IssueInput{
		WarehouseID: whA, Item: prodP, Quantity: d(1), DemandOrderID: "NOPE",
		Document: doc("IN-1", entity.DocumentIssueNote),
	})

	require.ErrorIs(t, err, domain.ErrNotFound)
	q, _ := f.qty(entity.AvailableKey(whA, prodP))
	assert.True(t, q.Equal(d(5)))
}

func TestIssue_ReservaDeSolicitudDeCompraSinOrdenDeVenta(t *testing.T) {
	f := newFixture(t, available(whA, matM, 2), reserved(whA, matM, "PR-1", 4))
	f.run(t, func(r inventory.Repositories) error {
		return r.PurchaseRequests.Create(context.Background(), &entity.PurchaseRequest{
			ID: "PR-1", Code: "PR-1", Status: entity.PurchaseRequestConfirmed,
		})
	})

	res, err := f.svc.Issue(context.Background(), inventory.IssueInput{
		WarehouseID: whA, Item: matM, Quantity: d(4), DemandOrderID: "PR-1",
		Document: doc("IN-1", entity.DocumentIssueNote),
	})

	require.NoError(t, err)
	assert.Equal(t, entity.PoolReserved, res.Pool)
	assert.Nil(t, res.DemandLine)
	_, ok := f.qty(entity.ReservedKey(whA, matM, "PR-1"))
	assert.False(t, ok, "reserva consumida")
	q, _ := f.qty(entity.AvailableKey(whA, matM))
	assert.True(t, q.Equal(d(2)))
}

func TestIssue_ItemQueLaOrdenNoDemanda(t *testing.T) {
	f := newFixture(t, available(whA, matN, 5))
	f.salesOrder(t, "S1", nil, map[entity.StockItem]int64{matM: 3})

	_, err := f.svc.Issue(context.Background(), inventory.IssueInput{
		WarehouseID: whA, Item: matN, Quantity: d(1), DemandOrderID: "S1",
		Document: doc("IN-1", entity.DocumentIssueNote),
	})

	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIssue_MaquilaAbreRegistroPendiente(t *testing.T) {
	f := newFixture(t, available(whA, matM, 10))

	res, err := f.svc.Issue(context.Background(), inventory.IssueInput{
		WarehouseID: whA, Item: matM, Quantity: d(6),
		Document:   doc("IN-7", entity.DocumentIssueNote),
		Category:   entity.IssueOutsourcing,
		SupplierID: "SUP-1",
	})

	require.NoError(t, err)
	require.NotNil(t, res.Outsourcing)
	assert.Equal(t, entity.DocumentPending, res.Outsourcing.Status)
	assert.Equal(t, "IN-7", res.Outsourcing.IssueNoteID)
	assert.Equal(t, "SUP-1", res.Outsourcing.SupplierID)
	require.Len(t, res.Outsourcing.Materials, 1)
	assert.Equal(t, matM, res.Outsourcing.Materials[0].Item)
	assert.True(t, res.Outsourcing.Materials[0].Ordered.Equal(d(6)))
}

func TestIssue_ValidaEntrada(t *testing.T) {
	f := newFixture(t, available(whA, prodP, 5))
	ctx := context.Background()

	tests := []struct {
		name string
		in   inventory.IssueInput
		want error
	}{
		{"sin bodega", inventory.IssueInput{Item: prodP, Quantity: d(1), Document: doc("X", entity.DocumentIssueNote)}, domain.ErrInvalidInput},
		{"cantidad cero", inventory.IssueInput{WarehouseID: whA, Item: prodP, Quantity: d(0), Document: doc("X", entity.DocumentIssueNote)}, domain.ErrInvalidInput},
		{"sin documento", inventory.IssueInput{WarehouseID: whA, Item: prodP, Quantity: d(1)}, domain.ErrInvalidInput},
		{"bodega inexistente", inventory.IssueInput{WarehouseID: "WH-X", Item: prodP, Quantity: d(1), Document: doc("X", entity.DocumentIssueNote)}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Issue(ctx, tt.in)
			require.ErrorIs(t, err, tt.want)
		})
	}
}
