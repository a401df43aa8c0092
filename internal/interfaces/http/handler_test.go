package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/orders"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
	"github.com/jhoicas/Inventario-ledger/pkg/metrics"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	whMain  = "WH-MAIN"
	prodID  = "PROD-1"
	matID   = "MAT-1"
	baseURL = "/api"
)

// buildLedgerApp levanta el router completo sobre el store en memoria con 10 unidades de
// PROD-1 y 20 de MAT-1 en WH-MAIN.
func buildLedgerApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Load(context.Background(), memory.Seed{
		Warehouses: []*entity.Warehouse{{ID: whMain, Name: "Principal"}},
		Materials:  []*entity.MaterialItem{{ID: matID, Name: "Tela"}},
		Products:   []*entity.ProductItem{{ID: prodID, Name: "Camisa"}},
		Stock: []memory.SeedStock{
			{Key: entity.AvailableKey(whMain, entity.Product(prodID)), Quantity: decimal.NewFromInt(10)},
			{Key: entity.AvailableKey(whMain, entity.Material(matID)), Quantity: decimal.NewFromInt(20)},
		},
	}))

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := inventory.NewService(store, inventory.Options{Metrics: m, Logger: logger.Nop()})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:      svc,
		Catalog:     usecase.NewCatalogUseCase(svc),
		SalesOrders: orders.NewSalesOrderUseCase(svc),
		Purchases:   orders.NewPurchaseUseCase(svc),
		IssueNotes:  orders.NewIssueNoteUseCase(svc),
		Outsourcing: orders.NewOutsourcingUseCase(svc),
		Logger:      logger.Nop(),
		Metrics:     m,
		Gatherer:    reg,
		JWTSecret:   testJWTSecret,
		JWTIssuer:   testIssuer,
	})
	return app
}

// call lanza un request con el rol indicado (rol vacío = sin Authorization) y decodifica la
// respuesta en out si no es nil.
func call(t *testing.T, app *fiber.App, method, path, role string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func product(id string) dto.ItemRef  { return dto.ItemRef{Kind: "PRODUCT", ID: id} }
func material(id string) dto.ItemRef { return dto.ItemRef{Kind: "MATERIAL", ID: id} }
func qty(n int64) decimal.Decimal    { return decimal.NewFromInt(n) }

// ──────────────────────────────────────────────────────────────────────────────
// Libro de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestReserve_BodegueroReservaYDisponibleBaja(t *testing.T) {
	app := buildLedgerApp(t)

	var alloc dto.AllocationResponse
	code := call(t, app, http.MethodPost, baseURL+"/ledger/reservations", "bodeguero", dto.ReserveRequest{
		ItemRef:       product(prodID),
		Quantity:      qty(4),
		DemandOrderID: "SO-1",
	}, &alloc)
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, alloc.Complete)
	assert.True(t, alloc.Allocated.Equal(qty(4)))
	require.Len(t, alloc.ByWarehouse, 1)
	assert.Equal(t, whMain, alloc.ByWarehouse[0].WarehouseID)

	var avail dto.AvailableResponse
	code = call(t, app, http.MethodGet, baseURL+"/items/PRODUCT/"+prodID+"/available", "vendedor", nil, &avail)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, avail.Available.Equal(qty(6)), "10 - 4 reservadas = 6, got %s", avail.Available)
}

func TestReserve_ProductoSinStockSuficiente_Retorna409(t *testing.T) {
	app := buildLedgerApp(t)

	var errBody dto.ErrorResponse
	code := call(t, app, http.MethodPost, baseURL+"/ledger/reservations", "admin", dto.ReserveRequest{
		ItemRef:       product(prodID),
		Quantity:      qty(11),
		DemandOrderID: "SO-1",
	}, &errBody)

	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)
}

func TestReserve_VendedorNoPuedeMoverStock(t *testing.T) {
	app := buildLedgerApp(t)

	code := call(t, app, http.MethodPost, baseURL+"/ledger/reservations", "vendedor", dto.ReserveRequest{
		ItemRef:       product(prodID),
		Quantity:      qty(1),
		DemandOrderID: "SO-1",
	}, nil)

	assert.Equal(t, http.StatusForbidden, code)
}

func TestReserve_PoliticaDesconocida_Retorna400(t *testing.T) {
	app := buildLedgerApp(t)

	var errBody dto.ErrorResponse
	code := call(t, app, http.MethodPost, baseURL+"/ledger/reservations", "admin", dto.ReserveRequest{
		ItemRef:       material(matID),
		Quantity:      qty(1),
		DemandOrderID: "SO-1",
		Policy:        "maybe",
	}, &errBody)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION", errBody.Code)
}

func TestRelease_DevuelveLoReservadoAlDisponible(t *testing.T) {
	app := buildLedgerApp(t)
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, baseURL+"/ledger/reservations", "admin",
		dto.ReserveRequest{ItemRef: material(matID), Quantity: qty(8), DemandOrderID: "SO-9"}, nil))

	var rel dto.ReleaseResponse
	code := call(t, app, http.MethodPost, baseURL+"/ledger/releases", "bodeguero", dto.ReleaseRequest{
		DemandOrderID: "SO-9",
		Lines:         []dto.LineRequest{{ItemRef: material(matID), Quantity: qty(10)}},
	}, &rel)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, rel.Lines, 1)
	assert.True(t, rel.Lines[0].Released.Equal(qty(8)))
	require.Len(t, rel.Shortfalls, 1, "se pidieron 10 y sólo había 8 reservadas")

	var stock []dto.WarehouseStockResponse
	code = call(t, app, http.MethodGet, baseURL+"/items/MATERIAL/"+matID+"/warehouses", "admin", nil, &stock)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, stock, 1)
	assert.True(t, stock[0].Available.Equal(qty(20)))
	assert.True(t, stock[0].Reserved.IsZero())
}

func TestReceipt_EntradaSimpleSumaAlDisponible(t *testing.T) {
	app := buildLedgerApp(t)

	var out []dto.ReceiveResponse
	code := call(t, app, http.MethodPost, baseURL+"/ledger/receipts", "bodeguero", dto.ReceiptRequest{
		WarehouseID: whMain,
		Document:    dto.DocumentRequest{ID: "RN-1", Kind: "RECEIPT_NOTE"},
		Lines:       []dto.ReceiptLineRequest{{LineRequest: dto.LineRequest{ItemRef: product(prodID), Quantity: qty(5)}}},
	}, &out)
	require.Equal(t, http.StatusCreated, code)
	require.Len(t, out, 1)
	assert.Equal(t, "AVAILABLE", out[0].Pool)
	require.NotNil(t, out[0].Transaction)
	assert.Equal(t, "IMPORT", out[0].Transaction.Direction)
	assert.Equal(t, testUserID, out[0].Transaction.CreatedBy, "el actor del token queda en el movimiento")

	var avail dto.AvailableResponse
	call(t, app, http.MethodGet, baseURL+"/items/PRODUCT/"+prodID+"/available", "admin", nil, &avail)
	assert.True(t, avail.Available.Equal(qty(15)))
}

func TestItems_TipoInvalido_Retorna400(t *testing.T) {
	app := buildLedgerApp(t)

	code := call(t, app, http.MethodGet, baseURL+"/items/SERVICE/X/available", "admin", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestItems_ItemDesconocido_Retorna404(t *testing.T) {
	app := buildLedgerApp(t)

	code := call(t, app, http.MethodGet, baseURL+"/items/PRODUCT/NOPE/available", "admin", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMovement_FechasMalFormadas_Retorna400(t *testing.T) {
	app := buildLedgerApp(t)

	code := call(t, app, http.MethodGet, baseURL+"/items/PRODUCT/"+prodID+"/movement?from=ayer&to=hoy", "admin", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestMovement_CuentaLaEntradaDelPeriodo(t *testing.T) {
	app := buildLedgerApp(t)
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, baseURL+"/ledger/receipts", "admin", dto.ReceiptRequest{
		WarehouseID: whMain,
		Document:    dto.DocumentRequest{ID: "RN-2", Kind: "RECEIPT_NOTE"},
		Lines:       []dto.ReceiptLineRequest{{LineRequest: dto.LineRequest{ItemRef: material(matID), Quantity: qty(3)}}},
	}, nil))

	var mv dto.MovementResponse
	code := call(t, app, http.MethodGet,
		baseURL+"/items/MATERIAL/"+matID+"/movement?from=2000-01-01T00:00:00Z&to=2100-01-01T00:00:00Z", "admin", nil, &mv)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, mv.In.Equal(qty(3)))
	assert.True(t, mv.Out.IsZero())
	assert.True(t, mv.Closing.Equal(mv.Opening.Add(qty(3))))
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo de orden de venta
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesOrder_ReservaYDespachoCompletanLaOrden(t *testing.T) {
	app := buildLedgerApp(t)

	var so dto.SalesOrderResponse
	code := call(t, app, http.MethodPost, baseURL+"/sales-orders", "vendedor", dto.CreateSalesOrderRequest{
		Code:     "SO-100",
		Products: []dto.LineRequest{{ItemRef: product(prodID), Quantity: qty(3)}},
	}, &so)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "PROCESSING", so.Status)

	var allocs []dto.AllocationResponse
	code = call(t, app, http.MethodPost, baseURL+"/sales-orders/"+so.ID+"/reserve-products", "vendedor", nil, &allocs)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, allocs, 1)
	assert.True(t, allocs[0].Allocated.Equal(qty(3)))

	var note dto.IssueNoteResponse
	code = call(t, app, http.MethodPost, baseURL+"/issue-notes", "bodeguero", dto.CreateIssueNoteRequest{
		WarehouseID:  whMain,
		SalesOrderID: so.ID,
		Category:     "SALE",
		Lines:        []dto.IssueNoteLineRequest{{LineRequest: dto.LineRequest{ItemRef: product(prodID), Quantity: qty(3)}}},
	}, &note)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "PENDING", note.Status)

	var posted dto.PostIssueNoteResponse
	code = call(t, app, http.MethodPost, baseURL+"/issue-notes/"+note.ID+"/post", "bodeguero", nil, &posted)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "COMPLETED", posted.Note.Status)
	require.Len(t, posted.Issues, 1)
	assert.Equal(t, "RESERVED", posted.Issues[0].Pool, "lo reservado para la orden se consume primero")

	var got dto.SalesOrderResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, baseURL+"/sales-orders/"+so.ID, "admin", nil, &got))
	assert.Equal(t, "COMPLETED", got.Status)
	assert.True(t, got.Products[0].Remaining.IsZero())

	var avail dto.AvailableResponse
	call(t, app, http.MethodGet, baseURL+"/items/PRODUCT/"+prodID+"/available", "admin", nil, &avail)
	assert.True(t, avail.Available.Equal(qty(7)))
}

func TestSalesOrder_Inexistente_Retorna404(t *testing.T) {
	app := buildLedgerApp(t)

	var errBody dto.ErrorResponse
	code := call(t, app, http.MethodGet, baseURL+"/sales-orders/no-existe", "admin", nil, &errBody)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", errBody.Code)
}

func TestSalesOrder_DisplayStatusSinSolicitudes(t *testing.T) {
	app := buildLedgerApp(t)
	var so dto.SalesOrderResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, baseURL+"/sales-orders", "admin", dto.CreateSalesOrderRequest{
		Materials: []dto.LineRequest{{ItemRef: material(matID), Quantity: qty(2)}},
	}, &so))

	var st dto.DisplayStatusResponse
	code := call(t, app, http.MethodGet, baseURL+"/sales-orders/"+so.ID+"/display-status", "admin", nil, &st)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, so.ID, st.ID)
	assert.Equal(t, string(entity.LabelNoRequest), st.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseOrder_RecepcionCompletaLaOrden(t *testing.T) {
	app := buildLedgerApp(t)

	var po dto.PurchaseOrderResponse
	code := call(t, app, http.MethodPost, baseURL+"/purchase-orders", "admin", dto.CreatePurchaseOrderRequest{
		SupplierID:  "SUP-1",
		WarehouseID: whMain,
		Lines:       []dto.LineRequest{{ItemRef: material(matID), Quantity: qty(5)}},
	}, &po)
	require.Equal(t, http.StatusCreated, code)
	require.Len(t, po.Lines, 1)

	var out []dto.ReceiveResponse
	code = call(t, app, http.MethodPost, baseURL+"/ledger/receipts", "bodeguero", dto.ReceiptRequest{
		WarehouseID: whMain,
		Document:    dto.DocumentRequest{ID: po.ID, Kind: "PURCHASE_ORDER"},
		Lines: []dto.ReceiptLineRequest{{
			LineRequest:  dto.LineRequest{ItemRef: material(matID), Quantity: qty(5)},
			SupplyLineID: po.Lines[0].ID,
		}},
	}, &out)
	require.Equal(t, http.StatusCreated, code)
	require.Len(t, out, 1)
	assert.Equal(t, "COMPLETED", out[0].OrderStatus)

	var got dto.PurchaseOrderResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, baseURL+"/purchase-orders/"+po.ID, "admin", nil, &got))
	assert.Equal(t, "COMPLETED", got.Status)
}

func TestPurchaseRequest_ConfirmarDosVeces_Retorna409(t *testing.T) {
	app := buildLedgerApp(t)

	var pr dto.PurchaseRequestResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, baseURL+"/purchase-requests", "bodeguero",
		dto.CreatePurchaseRequestRequest{Lines: []dto.LineRequest{{ItemRef: material(matID), Quantity: qty(4)}}}, &pr))
	assert.Equal(t, "PENDING", pr.Status)

	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, baseURL+"/purchase-requests/"+pr.ID+"/confirm", "admin", nil, nil))

	var errBody dto.ErrorResponse
	code := call(t, app, http.MethodPost, baseURL+"/purchase-requests/"+pr.ID+"/confirm", "admin", nil, &errBody)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INVALID_TRANSITION", errBody.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Infraestructura HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_SinToken_Retorna401(t *testing.T) {
	app := buildLedgerApp(t)

	code := call(t, app, http.MethodGet, baseURL+"/warehouses", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_MetricsExponeRequestsAtendidos(t *testing.T) {
	app := buildLedgerApp(t)
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, baseURL+"/warehouses", "admin", nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "http_requests_total")
	assert.Contains(t, string(body), `path="/api/warehouses"`)
}

func TestCatalog_CrearBodegaDuplicada_Retorna409(t *testing.T) {
	app := buildLedgerApp(t)

	var created dto.WarehouseResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, baseURL+"/warehouses", "admin",
		dto.CreateWarehouseRequest{ID: "WH-2", Name: "Secundaria"}, &created))
	assert.Equal(t, "WH-2", created.ID)

	code := call(t, app, http.MethodPost, baseURL+"/warehouses", "admin",
		dto.CreateWarehouseRequest{ID: "WH-2", Name: "Otra"}, nil)
	assert.Equal(t, http.StatusConflict, code)

	var list dto.WarehouseListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, baseURL+"/warehouses", "vendedor", nil, &list))
	assert.Len(t, list.Items, 2)
}
