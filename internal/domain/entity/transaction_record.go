package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction sentido de un movimiento físico.
type Direction string

const (
	DirectionImport Direction = "IMPORT" // entrada
	DirectionExport Direction = "EXPORT" // salida
)

// DocumentKind tipo de documento que origina un movimiento.
type DocumentKind string

const (
	DocumentIssueNote         DocumentKind = "ISSUE_NOTE"
	DocumentReceiptNote       DocumentKind = "RECEIPT_NOTE"
	DocumentPurchaseOrder     DocumentKind = "PURCHASE_ORDER"
	DocumentOutsourcingReturn DocumentKind = "OUTSOURCING_RETURN"
)

// TransactionRecord movimiento histórico (solo se agrega; nunca se modifica ni elimina).
// Es la única fuente del reporte de movimiento por período.
type TransactionRecord struct {
	ID                 string
	WarehouseID        string
	Item               StockItem
	Direction          Direction
	Quantity           decimal.Decimal // siempre > 0
	Timestamp          time.Time
	SourceDocumentID   string
	SourceDocumentKind DocumentKind
	CreatedBy          string
}
