package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// IssueCategory motivo de una salida de bodega.
type IssueCategory string

const (
	IssueSale        IssueCategory = "SALE"
	IssueProduction  IssueCategory = "PRODUCTION"
	IssueOutsourcing IssueCategory = "OUTSOURCING" // maquila: abre seguimiento de retorno
)

// DocumentStatus estado compartido por notas de salida y registros de maquila.
type DocumentStatus string

const (
	DocumentPending    DocumentStatus = "PENDING"
	DocumentInProgress DocumentStatus = "IN_PROGRESS"
	DocumentCompleted  DocumentStatus = "COMPLETED"
	DocumentCanceled   DocumentStatus = "CANCELED"
)

// IssueLine línea de una nota de salida.
type IssueLine struct {
	ID           string
	NoteID       string
	Item         StockItem
	Quantity     decimal.Decimal
	DemandLineID string
}

// ExpectedReturn material que el maquilador debe devolver.
type ExpectedReturn struct {
	Item     StockItem
	Quantity decimal.Decimal
}

// IssueNote documento de salida de bodega.
type IssueNote struct {
	ID              string
	Code            string
	WarehouseID     string
	SalesOrderID    string
	Category        IssueCategory
	SupplierID      string
	Status          DocumentStatus
	Lines           []*IssueLine
	ExpectedReturns []ExpectedReturn
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Clone copia profunda.
func (n *IssueNote) Clone() *IssueNote {
	c := *n
	if n.Lines != nil {
		c.Lines = make([]*IssueLine, len(n.Lines))
		for i, l := range n.Lines {
			lc := *l
			c.Lines[i] = &lc
		}
	}
	c.ExpectedReturns = append([]ExpectedReturn(nil), n.ExpectedReturns...)
	return &c
}

// OutsourcingRecord seguimiento de materiales entregados a un maquilador y su retorno.
type OutsourcingRecord struct {
	ID          string
	IssueNoteID string
	SupplierID  string
	WarehouseID string
	Status      DocumentStatus
	Materials   []*SupplyLine
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone copia profunda.
func (o *OutsourcingRecord) Clone() *OutsourcingRecord {
	c := *o
	c.Materials = cloneSupplyLines(o.Materials)
	return &c
}
