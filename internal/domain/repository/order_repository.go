package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// Las lecturas devuelven nil, nil cuando el documento no existe.
// GetForUpdate bloquea el documento (y sus líneas) hasta el fin de la transacción.

// SalesOrderRepository puerto de órdenes de venta.
type SalesOrderRepository interface {
	Create(ctx context.Context, o *entity.SalesOrder) error
	GetByID(ctx context.Context, id string) (*entity.SalesOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error)
	// Update persiste estado y contadores de línea.
	Update(ctx context.Context, o *entity.SalesOrder) error
}

// PurchaseRequestRepository puerto de solicitudes de compra.
type PurchaseRequestRepository interface {
	Create(ctx context.Context, r *entity.PurchaseRequest) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseRequest, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseRequest, error)
	Update(ctx context.Context, r *entity.PurchaseRequest) error
	ListBySalesOrder(ctx context.Context, salesOrderID string) ([]*entity.PurchaseRequest, error)
}

// PurchaseOrderRepository puerto de órdenes de compra.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, o *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	Update(ctx context.Context, o *entity.PurchaseOrder) error
	// FindByLineID orden a la que pertenece una línea (nil, nil si no existe).
	FindByLineID(ctx context.Context, lineID string) (*entity.PurchaseOrder, error)
}

// IssueNoteRepository puerto de notas de salida.
type IssueNoteRepository interface {
	Create(ctx context.Context, n *entity.IssueNote) error
	GetByID(ctx context.Context, id string) (*entity.IssueNote, error)
	GetForUpdate(ctx context.Context, id string) (*entity.IssueNote, error)
	Update(ctx context.Context, n *entity.IssueNote) error
}

// OutsourcingRepository puerto de registros de maquila.
type OutsourcingRepository interface {
	Create(ctx context.Context, r *entity.OutsourcingRecord) error
	GetByID(ctx context.Context, id string) (*entity.OutsourcingRecord, error)
	GetForUpdate(ctx context.Context, id string) (*entity.OutsourcingRecord, error)
	Update(ctx context.Context, r *entity.OutsourcingRecord) error
	FindByIssueNote(ctx context.Context, issueNoteID string) (*entity.OutsourcingRecord, error)
}
