package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSalesOrderRequest alta de orden de venta.
type CreateSalesOrderRequest struct {
	Code       string        `json:"code"`
	CustomerID string        `json:"customer_id"`
	Products   []LineRequest `json:"products"`
	Materials  []LineRequest `json:"materials"`
}

// DemandLineResponse línea de demanda.
type DemandLineResponse struct {
	ID        string          `json:"id"`
	Item      ItemRef         `json:"item"`
	Required  decimal.Decimal `json:"required"`
	Received  decimal.Decimal `json:"received"`
	Remaining decimal.Decimal `json:"remaining"`
}

// SalesOrderResponse orden de venta con sus líneas.
type SalesOrderResponse struct {
	ID         string               `json:"id"`
	Code       string               `json:"code"`
	CustomerID string               `json:"customer_id"`
	Status     string               `json:"status"`
	Products   []DemandLineResponse `json:"products"`
	Materials  []DemandLineResponse `json:"materials"`
	CreatedBy  string               `json:"created_by,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// ReserveLinesRequest body de reservar productos / preparar material. Bodega vacía = todas.
type ReserveLinesRequest struct {
	WarehouseID string `json:"warehouse_id,omitempty"`
}

// DisplayStatusResponse etiqueta derivada de una orden de venta.
type DisplayStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// SupplyLineResponse línea de abastecimiento.
type SupplyLineResponse struct {
	ID        string          `json:"id"`
	Item      ItemRef         `json:"item"`
	Ordered   decimal.Decimal `json:"ordered"`
	Received  decimal.Decimal `json:"received"`
	Remaining decimal.Decimal `json:"remaining"`
}

// CreatePurchaseRequestRequest alta de solicitud de compra.
type CreatePurchaseRequestRequest struct {
	Code         string        `json:"code"`
	SalesOrderID string        `json:"sales_order_id,omitempty"`
	Lines        []LineRequest `json:"lines"`
}

// PurchaseRequestResponse solicitud de compra.
type PurchaseRequestResponse struct {
	ID           string               `json:"id"`
	Code         string               `json:"code"`
	SalesOrderID string               `json:"sales_order_id,omitempty"`
	Status       string               `json:"status"`
	Lines        []SupplyLineResponse `json:"lines"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// ConvertRequest conversión de solicitud a orden de compra.
type ConvertRequest struct {
	Code        string `json:"code"`
	SupplierID  string `json:"supplier_id"`
	WarehouseID string `json:"warehouse_id"`
}

// CreatePurchaseOrderRequest alta directa de orden de compra.
type CreatePurchaseOrderRequest struct {
	Code         string        `json:"code"`
	SupplierID   string        `json:"supplier_id"`
	WarehouseID  string        `json:"warehouse_id"`
	SalesOrderID string        `json:"sales_order_id,omitempty"`
	Lines        []LineRequest `json:"lines"`
}

// PurchaseOrderResponse orden de compra.
type PurchaseOrderResponse struct {
	ID                string               `json:"id"`
	Code              string               `json:"code"`
	PurchaseRequestID string               `json:"purchase_request_id,omitempty"`
	SalesOrderID      string               `json:"sales_order_id,omitempty"`
	SupplierID        string               `json:"supplier_id"`
	WarehouseID       string               `json:"warehouse_id"`
	Status            string               `json:"status"`
	Lines             []SupplyLineResponse `json:"lines"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// IssueNoteLineRequest línea de nota de salida.
type IssueNoteLineRequest struct {
	LineRequest
	DemandLineID string `json:"demand_line_id,omitempty"`
}

// CreateIssueNoteRequest alta de nota de salida.
type CreateIssueNoteRequest struct {
	Code            string                 `json:"code"`
	WarehouseID     string                 `json:"warehouse_id"`
	SalesOrderID    string                 `json:"sales_order_id"`
	Category        string                 `json:"category"`
	SupplierID      string                 `json:"supplier_id,omitempty"`
	Lines           []IssueNoteLineRequest `json:"lines"`
	ExpectedReturns []LineRequest          `json:"expected_returns,omitempty"`
}

// IssueNoteLineResponse línea de nota de salida.
type IssueNoteLineResponse struct {
	ID           string          `json:"id"`
	Item         ItemRef         `json:"item"`
	Quantity     decimal.Decimal `json:"quantity"`
	DemandLineID string          `json:"demand_line_id,omitempty"`
}

// IssueNoteResponse nota de salida.
type IssueNoteResponse struct {
	ID              string                  `json:"id"`
	Code            string                  `json:"code"`
	WarehouseID     string                  `json:"warehouse_id"`
	SalesOrderID    string                  `json:"sales_order_id"`
	Category        string                  `json:"category"`
	SupplierID      string                  `json:"supplier_id,omitempty"`
	Status          string                  `json:"status"`
	Lines           []IssueNoteLineResponse `json:"lines"`
	ExpectedReturns []LineRequest           `json:"expected_returns,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// PostIssueNoteResponse resultado de contabilizar una nota.
type PostIssueNoteResponse struct {
	Note        IssueNoteResponse    `json:"note"`
	Issues      []IssueResponse      `json:"issues"`
	Outsourcing *OutsourcingResponse `json:"outsourcing,omitempty"`
}

// OutsourcingReturnRequest retorno de materiales de un maquilador.
type OutsourcingReturnRequest struct {
	WarehouseID string        `json:"warehouse_id,omitempty"`
	DocumentID  string        `json:"document_id"`
	Lines       []LineRequest `json:"lines"`
}

// OutsourcingResponse registro de maquila.
type OutsourcingResponse struct {
	ID          string               `json:"id"`
	IssueNoteID string               `json:"issue_note_id"`
	SupplierID  string               `json:"supplier_id"`
	WarehouseID string               `json:"warehouse_id"`
	Status      string               `json:"status"`
	Materials   []SupplyLineResponse `json:"materials"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}
