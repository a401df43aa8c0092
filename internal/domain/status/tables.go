package status

import "github.com/jhoicas/Inventario-ledger/internal/domain/entity"

// SalesOrders transiciones de la orden de venta.
var SalesOrders = NewMachine("orden de venta", map[entity.SalesOrderStatus][]entity.SalesOrderStatus{
	entity.SalesOrderProcessing: {
		entity.SalesOrderPreparingMaterial,
		entity.SalesOrderPartiallyIssued,
		entity.SalesOrderCompleted,
		entity.SalesOrderCancelled,
	},
	entity.SalesOrderPreparingMaterial: {
		entity.SalesOrderProcessing,
		entity.SalesOrderPartiallyIssued,
		entity.SalesOrderCompleted,
		entity.SalesOrderCancelled,
	},
	entity.SalesOrderPartiallyIssued: {entity.SalesOrderCompleted},
})

// PurchaseRequests transiciones de la solicitud de compra.
var PurchaseRequests = NewMachine("solicitud de compra", map[entity.PurchaseRequestStatus][]entity.PurchaseRequestStatus{
	entity.PurchaseRequestPending: {
		entity.PurchaseRequestConfirmed,
		entity.PurchaseRequestRejected,
		entity.PurchaseRequestCancelled,
	},
	entity.PurchaseRequestConfirmed: {
		entity.PurchaseRequestPurchased,
		entity.PurchaseRequestCancelled,
	},
})

// PurchaseOrders transiciones de la orden de compra.
var PurchaseOrders = NewMachine("orden de compra", map[entity.PurchaseOrderStatus][]entity.PurchaseOrderStatus{
	entity.PurchaseOrderPending: {
		entity.PurchaseOrderInProgress,
		entity.PurchaseOrderCompleted,
		entity.PurchaseOrderCancelled,
	},
	entity.PurchaseOrderInProgress: {entity.PurchaseOrderCompleted},
})

// Documents transiciones de notas de salida y registros de maquila.
var Documents = NewMachine("documento", map[entity.DocumentStatus][]entity.DocumentStatus{
	entity.DocumentPending: {
		entity.DocumentInProgress,
		entity.DocumentCompleted,
		entity.DocumentCanceled,
	},
	entity.DocumentInProgress: {
		entity.DocumentCompleted,
		entity.DocumentCanceled,
	},
})
