package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/orders"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
	"github.com/jhoicas/Inventario-ledger/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger      *inventory.Service
	Catalog     *usecase.CatalogUseCase
	SalesOrders *orders.SalesOrderUseCase
	Purchases   *orders.PurchaseUseCase
	IssueNotes  *orders.IssueNoteUseCase
	Outsourcing *orders.OutsourcingUseCase
	Logger      *logger.Logger
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer // nil = sin /metrics
	JWTSecret   string
	JWTIssuer   string // vacío = no se valida el emisor
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	app.Use(RequestLogger(log), MetricsMiddleware(deps.Metrics))
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Todas las rutas de la API requieren Bearer Token; las mutaciones además un rol.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	stock := RequireRole(RoleAdmin, RoleBodeguero)
	sales := RequireRole(RoleAdmin, RoleVendedor)
	admin := RequireRole(RoleAdmin)

	// Catálogo
	catalog := NewCatalogHandler(deps.Catalog, log)
	protected.Get("/warehouses", catalog.ListWarehouses)
	protected.Get("/warehouses/:id", catalog.GetWarehouse)
	protected.Post("/warehouses", admin, catalog.CreateWarehouse)
	protected.Post("/materials", admin, catalog.CreateMaterial)
	protected.Post("/products", admin, catalog.CreateProduct)

	// Libro de stock
	ledger := NewLedgerHandler(deps.Ledger, log)
	ledgerGroup := protected.Group("/ledger")
	ledgerGroup.Post("/reservations", stock, ledger.Reserve)
	ledgerGroup.Post("/releases", stock, ledger.Release)
	ledgerGroup.Post("/issues", stock, ledger.Issue)
	ledgerGroup.Post("/receipts", stock, ledger.Receive)

	items := protected.Group("/items/:kind/:id")
	items.Get("/available", ledger.Available)
	items.Get("/warehouses", ledger.ByWarehouse)
	items.Get("/movement", ledger.Movement)

	// Órdenes de venta
	so := NewSalesOrderHandler(deps.SalesOrders, log)
	salesOrders := protected.Group("/sales-orders")
	salesOrders.Post("/", sales, so.Create)
	salesOrders.Get("/:id", so.GetByID)
	salesOrders.Get("/:id/display-status", so.DisplayStatus)
	salesOrders.Post("/:id/reserve-products", sales, so.ReserveProducts)
	salesOrders.Post("/:id/prepare-material", stock, so.PrepareMaterial)
	salesOrders.Post("/:id/cancel", sales, so.Cancel)

	// Compras
	purchase := NewPurchaseHandler(deps.Purchases, log)
	requests := protected.Group("/purchase-requests")
	requests.Post("/", stock, purchase.CreateRequest)
	requests.Get("/:id", purchase.GetRequest)
	requests.Post("/:id/confirm", admin, purchase.Confirm)
	requests.Post("/:id/reject", admin, purchase.Reject)
	requests.Post("/:id/cancel", stock, purchase.CancelRequest)
	requests.Post("/:id/convert", admin, purchase.Convert)

	purchaseOrders := protected.Group("/purchase-orders")
	purchaseOrders.Post("/", admin, purchase.CreateOrder)
	purchaseOrders.Get("/:id", purchase.GetOrder)
	purchaseOrders.Post("/:id/cancel", admin, purchase.CancelOrder)

	// Notas de salida y maquila
	notes := NewIssueNoteHandler(deps.IssueNotes, deps.Outsourcing, log)
	issueNotes := protected.Group("/issue-notes")
	issueNotes.Post("/", stock, notes.Create)
	issueNotes.Get("/:id", notes.GetByID)
	issueNotes.Post("/:id/post", stock, notes.Post)
	issueNotes.Post("/:id/cancel", stock, notes.Cancel)

	outsourcing := protected.Group("/outsourcing")
	outsourcing.Get("/:id", notes.GetOutsourcing)
	outsourcing.Post("/:id/returns", stock, notes.RecordReturn)
	outsourcing.Post("/:id/cancel", stock, notes.CancelOutsourcing)
}
