package entity

import "time"

// SalesOrderStatus estado persistido de una orden de venta.
type SalesOrderStatus string

const (
	SalesOrderProcessing        SalesOrderStatus = "PROCESSING"
	SalesOrderPreparingMaterial SalesOrderStatus = "PREPARING_MATERIAL"
	SalesOrderPartiallyIssued   SalesOrderStatus = "PARTIALLY_ISSUED"
	SalesOrderCompleted         SalesOrderStatus = "COMPLETED"
	SalesOrderCancelled         SalesOrderStatus = "CANCELLED"
)

// SalesOrderLabel etiqueta de visualización; en PROCESSING se deriva de sus solicitudes de compra.
type SalesOrderLabel string

const (
	LabelNoRequest       SalesOrderLabel = "NO_REQUEST"
	LabelRequestPending  SalesOrderLabel = "REQUEST_PENDING"
	LabelRequestRejected SalesOrderLabel = "REQUEST_REJECTED"
)

// SalesOrder orden de venta: demanda de productos terminados y de materiales para fabricarlos.
type SalesOrder struct {
	ID            string
	Code          string
	CustomerID    string
	Status        SalesOrderStatus
	ProductLines  []*DemandLine
	MaterialLines []*DemandLine
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Lines devuelve todas las líneas (productos primero).
func (o *SalesOrder) Lines() []*DemandLine {
	out := make([]*DemandLine, 0, len(o.ProductLines)+len(o.MaterialLines))
	out = append(out, o.ProductLines...)
	return append(out, o.MaterialLines...)
}

// FindLine busca una línea por ID.
func (o *SalesOrder) FindLine(id string) *DemandLine {
	for _, l := range o.Lines() {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// LineFor devuelve la primera línea pendiente del ítem (o la primera del ítem si todas están completas).
func (o *SalesOrder) LineFor(item StockItem) *DemandLine {
	var first *DemandLine
	for _, l := range o.Lines() {
		if l.Item != item {
			continue
		}
		if !l.FullyReceived() {
			return l
		}
		if first == nil {
			first = l
		}
	}
	return first
}

// FullyReceived true cuando cada línea cubrió lo requerido.
func (o *SalesOrder) FullyReceived() bool {
	lines := o.Lines()
	if len(lines) == 0 {
		return false
	}
	for _, l := range lines {
		if !l.FullyReceived() {
			return false
		}
	}
	return true
}

// AnyReceived true si alguna línea registra entregas.
func (o *SalesOrder) AnyReceived() bool {
	for _, l := range o.Lines() {
		if l.Received.IsPositive() {
			return true
		}
	}
	return false
}

// Clone copia profunda (líneas incluidas).
func (o *SalesOrder) Clone() *SalesOrder {
	c := *o
	c.ProductLines = cloneDemandLines(o.ProductLines)
	c.MaterialLines = cloneDemandLines(o.MaterialLines)
	return &c
}
