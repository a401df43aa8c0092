package entity

import "time"

// PurchaseRequestStatus estado de una solicitud de compra.
type PurchaseRequestStatus string

const (
	PurchaseRequestPending   PurchaseRequestStatus = "PENDING"
	PurchaseRequestConfirmed PurchaseRequestStatus = "CONFIRMED"
	PurchaseRequestRejected  PurchaseRequestStatus = "REJECTED"
	PurchaseRequestCancelled PurchaseRequestStatus = "CANCELLED"
	PurchaseRequestPurchased PurchaseRequestStatus = "PURCHASED"
)

// PurchaseRequest solicitud de compra, opcionalmente ligada a una orden de venta.
type PurchaseRequest struct {
	ID           string
	Code         string
	SalesOrderID string
	Status       PurchaseRequestStatus
	Lines        []*SupplyLine
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clone copia profunda.
func (p *PurchaseRequest) Clone() *PurchaseRequest {
	c := *p
	c.Lines = cloneSupplyLines(p.Lines)
	return &c
}

// PurchaseOrderStatus estado de una orden de compra.
type PurchaseOrderStatus string

const (
	PurchaseOrderPending    PurchaseOrderStatus = "PENDING"
	PurchaseOrderInProgress PurchaseOrderStatus = "IN_PROGRESS"
	PurchaseOrderCompleted  PurchaseOrderStatus = "COMPLETED"
	PurchaseOrderCancelled  PurchaseOrderStatus = "CANCELLED"
)

// PurchaseOrder orden de compra a proveedor. SalesOrderID y PurchaseRequestID forman la cadena
// que decide si una recepción queda reservada para una orden de venta.
type PurchaseOrder struct {
	ID                string
	Code              string
	PurchaseRequestID string
	SalesOrderID      string
	SupplierID        string
	WarehouseID       string
	Status            PurchaseOrderStatus
	Lines             []*SupplyLine
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Clone copia profunda.
func (p *PurchaseOrder) Clone() *PurchaseOrder {
	c := *p
	c.Lines = cloneSupplyLines(p.Lines)
	return &c
}
