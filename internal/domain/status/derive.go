package status

import "github.com/jhoicas/Inventario-ledger/internal/domain/entity"

// SalesOrderAfterIssue estado al que pasa la orden tras una salida contra sus líneas.
func SalesOrderAfterIssue(o *entity.SalesOrder) entity.SalesOrderStatus {
	if o.FullyReceived() {
		return entity.SalesOrderCompleted
	}
	if o.AnyReceived() {
		return entity.SalesOrderPartiallyIssued
	}
	return o.Status
}

// SupplyAfterReceipt estado de una orden de compra según recibido vs pedido en sus líneas.
func SupplyAfterReceipt(lines []*entity.SupplyLine) entity.PurchaseOrderStatus {
	if entity.SupplyLinesComplete(lines) {
		return entity.PurchaseOrderCompleted
	}
	return entity.PurchaseOrderInProgress
}

// DocumentAfterReturn estado de un registro de maquila según materiales devueltos.
func DocumentAfterReturn(lines []*entity.SupplyLine) entity.DocumentStatus {
	if entity.SupplyLinesComplete(lines) {
		return entity.DocumentCompleted
	}
	return entity.DocumentInProgress
}

// SalesOrderAfterRequests recalcula la orden a partir de sus solicitudes de compra.
// Sólo aplica en PROCESSING / PREPARING_MATERIAL: todas canceladas -> PROCESSING,
// alguna confirmada o comprada -> PREPARING_MATERIAL; en otro caso no cambia.
func SalesOrderAfterRequests(current entity.SalesOrderStatus, requests []*entity.PurchaseRequest) entity.SalesOrderStatus {
	if current != entity.SalesOrderProcessing && current != entity.SalesOrderPreparingMaterial {
		return current
	}
	if len(requests) == 0 {
		return current
	}
	allCancelled := true
	for _, r := range requests {
		if r.Status != entity.PurchaseRequestCancelled {
			allCancelled = false
		}
	}
	if allCancelled {
		return entity.SalesOrderProcessing
	}
	for _, r := range requests {
		if r.Status == entity.PurchaseRequestConfirmed || r.Status == entity.PurchaseRequestPurchased {
			return entity.SalesOrderPreparingMaterial
		}
	}
	return current
}

// DisplayLabel etiqueta para mostrar. Fuera de PROCESSING es el propio estado; en PROCESSING
// se deriva de las solicitudes no canceladas: ninguna, alguna pendiente o todas rechazadas.
func DisplayLabel(o *entity.SalesOrder, requests []*entity.PurchaseRequest) string {
	if o.Status != entity.SalesOrderProcessing {
		return string(o.Status)
	}
	var live []*entity.PurchaseRequest
	for _, r := range requests {
		if r.Status != entity.PurchaseRequestCancelled {
			live = append(live, r)
		}
	}
	if len(live) == 0 {
		return string(entity.LabelNoRequest)
	}
	for _, r := range live {
		if r.Status == entity.PurchaseRequestPending {
			return string(entity.LabelRequestPending)
		}
	}
	allRejected := true
	for _, r := range live {
		if r.Status != entity.PurchaseRequestRejected {
			allRejected = false
		}
	}
	if allRejected {
		return string(entity.LabelRequestRejected)
	}
	return string(o.Status)
}
