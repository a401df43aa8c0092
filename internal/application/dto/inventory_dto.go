package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReserveRequest body para POST /api/ledger/reservations.
// Policy opcional: "fail" (estricta) o "accept" (parcial); vacío = según el tipo de ítem.
type ReserveRequest struct {
	ItemRef
	WarehouseID   string          `json:"warehouse_id,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	DemandOrderID string          `json:"demand_order_id"`
	Policy        string          `json:"policy,omitempty"`
}

// AllocationResponse resultado de una reserva.
type AllocationResponse struct {
	Item          ItemRef             `json:"item"`
	DemandOrderID string              `json:"demand_order_id"`
	Requested     decimal.Decimal     `json:"requested"`
	Allocated     decimal.Decimal     `json:"allocated"`
	Shortfall     decimal.Decimal     `json:"shortfall"`
	Complete      bool                `json:"complete"`
	ByWarehouse   []WarehouseQuantity `json:"by_warehouse"`
}

// ReleaseRequest body para POST /api/ledger/releases.
type ReleaseRequest struct {
	DemandOrderID string        `json:"demand_order_id"`
	Lines         []LineRequest `json:"lines"`
}

// ReleasedLineResponse lo devuelto a AVAILABLE para una línea.
type ReleasedLineResponse struct {
	Item        ItemRef             `json:"item"`
	Required    decimal.Decimal     `json:"required"`
	Released    decimal.Decimal     `json:"released"`
	ByWarehouse []WarehouseQuantity `json:"by_warehouse"`
}

// ReleaseShortfallResponse línea con menos reservado que lo requerido.
type ReleaseShortfallResponse struct {
	Item     ItemRef         `json:"item"`
	Required decimal.Decimal `json:"required"`
	Released decimal.Decimal `json:"released"`
}

// ReleaseResponse resultado de una liberación.
type ReleaseResponse struct {
	DemandOrderID string                     `json:"demand_order_id"`
	Lines         []ReleasedLineResponse     `json:"lines"`
	Shortfalls    []ReleaseShortfallResponse `json:"shortfalls"`
}

// DocumentRequest documento que origina un movimiento.
type DocumentRequest struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

// IssueRequest body para POST /api/ledger/issues.
type IssueRequest struct {
	ItemRef
	WarehouseID   string          `json:"warehouse_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	DemandOrderID string          `json:"demand_order_id"`
	DemandLineID  string          `json:"demand_line_id,omitempty"`
	Document      DocumentRequest `json:"document"`
	Category      string          `json:"category,omitempty"`
	SupplierID    string          `json:"supplier_id,omitempty"`
}

// TransactionResponse registro del log de movimientos.
type TransactionResponse struct {
	ID           string          `json:"id"`
	WarehouseID  string          `json:"warehouse_id"`
	Item         ItemRef         `json:"item"`
	Direction    string          `json:"direction"`
	Quantity     decimal.Decimal `json:"quantity"`
	Timestamp    time.Time       `json:"timestamp"`
	DocumentID   string          `json:"document_id"`
	DocumentKind string          `json:"document_kind"`
	CreatedBy    string          `json:"created_by,omitempty"`
}

// IssueResponse resultado de una salida.
type IssueResponse struct {
	Pool          string               `json:"pool"`
	Remaining     decimal.Decimal      `json:"remaining"`
	Transaction   *TransactionResponse `json:"transaction"`
	DemandLineID  string               `json:"demand_line_id,omitempty"`
	OrderStatus   string               `json:"order_status,omitempty"`
	OutsourcingID string               `json:"outsourcing_id,omitempty"`
}

// ReceiptLineRequest línea de una nota de entrada.
type ReceiptLineRequest struct {
	LineRequest
	SupplyLineID string `json:"supply_line_id,omitempty"`
}

// ReceiptRequest body para POST /api/ledger/receipts.
type ReceiptRequest struct {
	WarehouseID string               `json:"warehouse_id"`
	Document    DocumentRequest      `json:"document"`
	Lines       []ReceiptLineRequest `json:"lines"`
}

// ReceiveResponse resultado de una línea recibida.
type ReceiveResponse struct {
	Pool          string               `json:"pool"`
	DemandOrderID string               `json:"demand_order_id,omitempty"`
	Quantity      decimal.Decimal      `json:"quantity"`
	Transaction   *TransactionResponse `json:"transaction"`
	SupplyLineID  string               `json:"supply_line_id,omitempty"`
	OrderStatus   string               `json:"order_status,omitempty"`
}

// AvailableResponse total disponible de un ítem.
type AvailableResponse struct {
	Item      ItemRef         `json:"item"`
	Available decimal.Decimal `json:"available"`
}

// WarehouseStockResponse stock de un ítem en una bodega.
type WarehouseStockResponse struct {
	WarehouseID string          `json:"warehouse_id"`
	Available   decimal.Decimal `json:"available"`
	Reserved    decimal.Decimal `json:"reserved"`
	Usable      decimal.Decimal `json:"usable"`
}

// MovementResponse movimiento de un ítem en [from, to).
type MovementResponse struct {
	Item    ItemRef         `json:"item"`
	From    time.Time       `json:"from"`
	To      time.Time       `json:"to"`
	Opening decimal.Decimal `json:"opening"`
	In      decimal.Decimal `json:"in"`
	Out     decimal.Decimal `json:"out"`
	Closing decimal.Decimal `json:"closing"`
}
