package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Receive
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_SinOrdenDeCompraSumaAlDisponible(t *testing.T) {
	f := newFixture(t, available(whA, prodP, 2))

	res, err := f.svc.Receive(context.Background(), inventory.ReceiveInput{
		WarehouseID: whA, Item: prodP, Quantity: d(8), Document: doc("RN-1", entity.DocumentReceiptNote),
	})

	require.NoError(t, err)
	assert.Equal(t, entity.PoolAvailable, res.Pool)
	assert.True(t, res.Record.Quantity.Equal(d(10)))
	txs := f.store.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, entity.DirectionImport, txs[0].Direction)
	assert.Equal(t, entity.DocumentReceiptNote, txs[0].SourceDocumentKind)
}

func TestReceiveEIssue_RechazanMasDecimalesDeLosQueSeGuardan(t *testing.T) {
	f := newFixture(t, available(whA, matM, 1))
	tiny := decimal.RequireFromString("0.00004")

	_, err := f.svc.Receive(context.Background(), inventory.ReceiveInput{
		WarehouseID: whA, Item: matM, Quantity: tiny, Document: doc("RN-1", entity.DocumentReceiptNote),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Issue(context.Background(), inventory.IssueInput{
		WarehouseID: whA, Item: matM, Quantity: tiny, Document: doc("IN-1", entity.DocumentIssueNote),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, f.store.Transactions())
	assert.True(t, f.total(whA, matM).Equal(d(1)))
}

func TestReceive_CreaElRegistroSiNoExiste(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Receive(context.Background(), inventory.ReceiveInput{
		WarehouseID: whB, Item: matN, Quantity: d(3), Document: doc("RN-1", entity.DocumentReceiptNote),
	})

	require.NoError(t, err)
	assert.NotZero(t, res.Record.ID)
	q, ok := f.qty(entity.AvailableKey(whB, matN))
	require.True(t, ok)
	assert.True(t, q.Equal(d(3)))
}

func TestReceive_OrdenDeCompraDosLineas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchaseOrder(t, &entity.PurchaseOrder{
		ID: "PO-1", WarehouseID: whA,
		Lines: []*entity.SupplyLine{supplyLine("L1", prodP, 10), supplyLine("L2", matN, 5)},
	})

	res, err := f.svc.Receive(ctx, inventory.ReceiveInput{
		WarehouseID: whA, Item: prodP, Quantity: d(10), SupplyLineID: "L1",
		Document: doc("PO-1", entity.DocumentPurchaseOrder),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderInProgress, res.OrderStatus)
	assert.True(t, res.SupplyLine.Remaining.IsZero())

	res, err = f.svc.Receive(ctx, inventory.ReceiveInput{
		WarehouseID: whA, Item: matN, Quantity: d(5), SupplyLineID: "L2",
		Document: doc("PO-1", entity.DocumentPurchaseOrder),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderCompleted, res.OrderStatus)

	po := f.getPurchaseOrder(t, "PO-1")
	assert.Equal(t, entity.PurchaseOrderCompleted, po.Status)
	assert.True(t, po.Lines[0].Received.Equal(d(10)))
	assert.True(t, po.Lines[1].Received.Equal(d(5)))
}

func TestReceive_SobreRecepcionDejaPendienteEnCero(t *testing.T) {
	f := newFixture(t)
	f.purchaseOrder(t, &entity.PurchaseOrder{ID: "PO-1", Lines: []*entity.SupplyLine{supplyLine("L1", prodP, 4)}})

	res, err := f.svc.Receive(context.Background(), inventory.ReceiveInput{
		WarehouseID: whA, Item: prodP, Quantity: d(6), SupplyLineID: "L1",
		Document: doc("PO-1", entity.DocumentPurchaseOrder),
	})

	require.NoError(t, err)
	assert.True(t, res.SupplyLine.Received.Equal(d(6)))
	assert.True(t, res.SupplyLine.Remaining.IsZero())
	assert.Equal(t, entity.PurchaseOrderCompleted, res.OrderStatus)
}

func TestReceive_MaterialDeCompraLigadaAVentaQuedaReservado(t *testing.T) {
	f := newFixture(t)
	f.salesOrder(t, "S1", nil, map[entity.StockItem]int64{matM: 10})
	f.purchaseOrder(t, &entity.PurchaseOrder{
		ID: "PO-1", SalesOrderID: "S1",
		Lines: []*entity.SupplyLine{supplyLine("L1", matM, 10), supplyLine("L2", prodP, 2)},
	})
	ctx := context.Background()

	res, err := f.svc.Receive(ctx, inventory.ReceiveInput{
		WarehouseID: whA, Item: matM, Quantity: d(10), SupplyLineID: "L1",
		Document: doc("PO-1", entity.DocumentPurchaseOrder),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PoolReserved, res.Pool)
	assert.Equal(t, "S1", res.DemandOrderID)
	q, ok := f.qty(entity.ReservedKey(whA, matM, "S1"))
	require.True(t, ok)
	assert.True(t, q.Equal(d(10)))

	res, err = f.svc.Receive(ctx, inventory.ReceiveInput{
		WarehouseID: whA, Item: prodP, Quantity: d(2), SupplyLineID: "L2",
		Document: doc("PO-1", entity.DocumentPurchaseOrder),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PoolAvailable, res.Pool, "los productos siempre entran al disponible")
}

func TestReceive_SigueLaCadenaDeLaSolicitudDeCompra(t *testing.T) {
	f := newFixture(t)
	f.salesOrder(t, "S1", nil, map[entity.StockItem]int64{matM: 4})
	f.run(t, func(r inventory.Repositories) error {
		return r.PurchaseRequests.Create(context.Background(), &entity.PurchaseRequest{
			ID: "PR-1", SalesOrderID: "S1", Status: entity.PurchaseRequestPurchased,
			Lines: []*entity.SupplyLine{supplyLine("PRL1", matM, 4)},
		})
	})
	f.purchaseOrder(t, &entity.PurchaseOrder{
		ID: "PO-1", PurchaseRequestID: "PR-1",
		Lines: []*entity.SupplyLine{supplyLine("L1", matM, 4)},
	})

	res, err := f.svc.Receive(context.Background(), inventory.ReceiveInput{
		WarehouseID: whA, Item: matM, Quantity: d(4), SupplyLineID: "L1",
		Document: doc("PO-1", entity.DocumentPurchaseOrder),
	})

	require.NoError(t, err)
	assert.Equal(t, entity.PoolReserved, res.Pool)
	assert.Equal(t, "S1", res.DemandOrderID)
}

func TestReceive_LineaDeOtroItem(t *testing.T) {
	f := newFixture(t)
	f.purchaseOrder(t, &entity.PurchaseOrder{ID: "PO-1", Lines: []*entity.SupplyLine{supplyLine("L1", prodP, 4)}})

	_, err := f.svc.Receive(context.Background(), inventory.ReceiveInput{
		WarehouseID: whA, Item: matM, Quantity: d(4), SupplyLineID: "L1",
		Document: doc("PO-1", entity.DocumentPurchaseOrder),
	})

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.store.Records())
}

func TestReceive_OrdenCanceladaNoAdmiteRecepcion(t *testing.T) {
	f := newFixture(t)
	f.purchaseOrder(t, &entity.PurchaseOrder{
		ID: "PO-1", Status: entity.PurchaseOrderCancelled,
		Lines: []*entity.SupplyLine{supplyLine("L1", prodP, 4)},
	})

	_, err := f.svc.Receive(context.Background(), inventory.ReceiveInput{
		WarehouseID: whA, Item: prodP, Quantity: d(1), SupplyLineID: "L1",
		Document: doc("PO-1", entity.DocumentPurchaseOrder),
	})

	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, f.store.Records())
	assert.Empty(t, f.store.Transactions())
}

func TestReceiveNote_UnaLineaFallidaRevierteTodas(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ReceiveNote(context.Background(), inventory.ReceiptInput{
		WarehouseID: whA,
		Document:    doc("RN-1", entity.DocumentReceiptNote),
		Lines: []inventory.ReceiptLine{
			{Item: prodP, Quantity: d(3)},
			{Item: matM, Quantity: d(2), SupplyLineID: "NOPE"},
		},
	})

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.store.Records())
	assert.Empty(t, f.store.Transactions())
}

func TestReceiveNote_VariasLineas(t *testing.T) {
	f := newFixture(t)

	results, err := f.svc.ReceiveNote(context.Background(), inventory.ReceiptInput{
		WarehouseID: whA,
		Document:    doc("RN-1", entity.DocumentReceiptNote),
		Lines: []inventory.ReceiptLine{
			{Item: prodP, Quantity: d(3)},
			{Item: matM, Quantity: d(2)},
		},
	})

	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Len(t, f.store.Transactions(), 2)
	assert.ElementsMatch(t, []entity.StockItem{prodP, matM}, f.cache.invalidated)
}

func TestReceive_ValidaEntrada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Receive(ctx, inventory.ReceiveInput{WarehouseID: whA, Item: prodP, Quantity: d(0), Document: doc("X", entity.DocumentReceiptNote)})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Receive(ctx, inventory.ReceiveInput{WarehouseID: "WH-X", Item: prodP, Quantity: d(1), Document: doc("X", entity.DocumentReceiptNote)})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.ReceiveNote(ctx, inventory.ReceiptInput{WarehouseID: whA, Document: doc("X", entity.DocumentReceiptNote)})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
