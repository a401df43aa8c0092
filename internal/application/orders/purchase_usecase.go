package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/status"
)

// PurchaseUseCase flujos de solicitudes y órdenes de compra.
type PurchaseUseCase struct {
	svc *inventory.Service
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(svc *inventory.Service) *PurchaseUseCase {
	return &PurchaseUseCase{svc: svc}
}

// CreatePurchaseRequestInput alta de una solicitud de compra.
type CreatePurchaseRequestInput struct {
	Code         string
	SalesOrderID string // opcional
	Lines        []LineInput
	CreatedBy    string
}

// CreateRequest registra la solicitud en PENDING.
func (uc *PurchaseUseCase) CreateRequest(ctx context.Context, in CreatePurchaseRequestInput) (*entity.PurchaseRequest, error) {
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("solicitud sin líneas: %w", domain.ErrInvalidInput)
	}
	now := uc.svc.Now()
	pr := &entity.PurchaseRequest{
		ID:           uuid.New().String(),
		Code:         documentCode(in.Code, "PR"),
		SalesOrderID: in.SalesOrderID,
		Status:       entity.PurchaseRequestPending,
		CreatedBy:    in.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	pr.Lines = newSupplyLines(pr.ID, in.Lines)

	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		if err := validateLines(ctx, r, in.Lines); err != nil {
			return err
		}
		if in.SalesOrderID != "" {
			so, err := r.SalesOrders.GetByID(ctx, in.SalesOrderID)
			if err != nil {
				return err
			}
			if so == nil {
				return fmt.Errorf("orden de venta %s: %w", in.SalesOrderID, domain.ErrNotFound)
			}
		}
		return r.PurchaseRequests.Create(ctx, pr)
	})
	if err != nil {
		return nil, err
	}
	return pr, nil
}

// GetRequest devuelve la solicitud o ErrNotFound.
func (uc *PurchaseUseCase) GetRequest(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	var pr *entity.PurchaseRequest
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		var err error
		pr, err = r.PurchaseRequests.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return nil, fmt.Errorf("solicitud de compra %s: %w", id, domain.ErrNotFound)
	}
	return pr, nil
}

// Confirm PENDING -> CONFIRMED; la orden de venta vinculada pasa a PREPARING_MATERIAL.
func (uc *PurchaseUseCase) Confirm(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	return uc.moveRequest(ctx, id, entity.PurchaseRequestConfirmed)
}

// Reject PENDING -> REJECTED.
func (uc *PurchaseUseCase) Reject(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	return uc.moveRequest(ctx, id, entity.PurchaseRequestRejected)
}

func (uc *PurchaseUseCase) moveRequest(ctx context.Context, id string, to entity.PurchaseRequestStatus) (*entity.PurchaseRequest, error) {
	var pr *entity.PurchaseRequest
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		var err error
		pr, err = uc.lockRequest(ctx, r, id)
		if err != nil {
			return err
		}
		if err := status.PurchaseRequests.Transition(pr.Status, to); err != nil {
			return err
		}
		pr.Status = to
		pr.UpdatedAt = uc.svc.Now()
		if err := r.PurchaseRequests.Update(ctx, pr); err != nil {
			return err
		}
		return recomputeSalesOrder(ctx, uc.svc, r, pr.SalesOrderID)
	})
	if err != nil {
		return nil, err
	}
	return pr, nil
}

// CancelRequest cancela la solicitud, libera sus reservas (materiales siempre; productos sólo si está
// ligada a una orden de venta) y recalcula la orden de venta.
func (uc *PurchaseUseCase) CancelRequest(ctx context.Context, id string) (*inventory.ReleaseResult, error) {
	var res *inventory.ReleaseResult
	var items []entity.StockItem
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		pr, err := uc.lockRequest(ctx, r, id)
		if err != nil {
			return err
		}
		if err := status.PurchaseRequests.Transition(pr.Status, entity.PurchaseRequestCancelled); err != nil {
			return err
		}
		demand := pr.SalesOrderID
		if demand == "" {
			demand = pr.ID
		}
		var lines []inventory.ReleaseLine
		items = items[:0]
		for _, l := range pr.Lines {
			if l.Item.IsProduct() && pr.SalesOrderID == "" {
				continue
			}
			lines = append(lines, inventory.ReleaseLine{Item: l.Item, Quantity: l.Ordered})
			items = append(items, l.Item)
		}
		res, err = uc.svc.ReleaseInTx(ctx, r, inventory.ReleaseInput{DemandOrderID: demand, Lines: lines})
		if err != nil {
			return err
		}
		pr.Status = entity.PurchaseRequestCancelled
		pr.UpdatedAt = uc.svc.Now()
		if err := r.PurchaseRequests.Update(ctx, pr); err != nil {
			return err
		}
		return recomputeSalesOrder(ctx, uc.svc, r, pr.SalesOrderID)
	})
	if err != nil {
		return nil, err
	}
	uc.svc.InvalidateCache(ctx, items...)
	return res, nil
}

// ConvertInput datos de la orden de compra generada desde una solicitud.
type ConvertInput struct {
	Code        string
	SupplierID  string
	WarehouseID string
	CreatedBy   string
}

// ConvertToPurchaseOrder CONFIRMED -> PURCHASED y crea la orden de compra en PENDING con las mismas líneas.
func (uc *PurchaseUseCase) ConvertToPurchaseOrder(ctx context.Context, requestID string, in ConvertInput) (*entity.PurchaseOrder, error) {
	var po *entity.PurchaseOrder
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		if err := inventory.RequireWarehouse(ctx, r, in.WarehouseID); err != nil {
			return err
		}
		pr, err := uc.lockRequest(ctx, r, requestID)
		if err != nil {
			return err
		}
		if pr.Status == entity.PurchaseRequestPurchased {
			return fmt.Errorf("solicitud %s ya fue convertida: %w", pr.ID, domain.ErrConflict)
		}
		if err := status.PurchaseRequests.Transition(pr.Status, entity.PurchaseRequestPurchased); err != nil {
			return err
		}
		now := uc.svc.Now()
		lines := make([]LineInput, 0, len(pr.Lines))
		for _, l := range pr.Lines {
			lines = append(lines, LineInput{Item: l.Item, Quantity: l.Ordered})
		}
		po = &entity.PurchaseOrder{
			ID:                uuid.New().String(),
			Code:              documentCode(in.Code, "PO"),
			PurchaseRequestID: pr.ID,
			SalesOrderID:      pr.SalesOrderID,
			SupplierID:        in.SupplierID,
			WarehouseID:       in.WarehouseID,
			Status:            entity.PurchaseOrderPending,
			CreatedBy:         in.CreatedBy,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		po.Lines = newSupplyLines(po.ID, lines)
		if err := r.PurchaseOrders.Create(ctx, po); err != nil {
			return err
		}
		pr.Status = entity.PurchaseRequestPurchased
		pr.UpdatedAt = now
		if err := r.PurchaseRequests.Update(ctx, pr); err != nil {
			return err
		}
		return recomputeSalesOrder(ctx, uc.svc, r, pr.SalesOrderID)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// CreatePurchaseOrderInput alta directa de una orden de compra (sin solicitud).
type CreatePurchaseOrderInput struct {
	Code         string
	SupplierID   string
	WarehouseID  string
	SalesOrderID string // opcional: las entradas de material quedan reservadas para ella
	Lines        []LineInput
	CreatedBy    string
}

// CreateOrder registra la orden de compra en PENDING.
func (uc *PurchaseUseCase) CreateOrder(ctx context.Context, in CreatePurchaseOrderInput) (*entity.PurchaseOrder, error) {
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("orden de compra sin líneas: %w", domain.ErrInvalidInput)
	}
	now := uc.svc.Now()
	po := &entity.PurchaseOrder{
		ID:           uuid.New().String(),
		Code:         documentCode(in.Code, "PO"),
		SalesOrderID: in.SalesOrderID,
		SupplierID:   in.SupplierID,
		WarehouseID:  in.WarehouseID,
		Status:       entity.PurchaseOrderPending,
		CreatedBy:    in.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	po.Lines = newSupplyLines(po.ID, in.Lines)
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		if err := inventory.RequireWarehouse(ctx, r, in.WarehouseID); err != nil {
			return err
		}
		if err := validateLines(ctx, r, in.Lines); err != nil {
			return err
		}
		if in.SalesOrderID != "" {
			so, err := r.SalesOrders.GetByID(ctx, in.SalesOrderID)
			if err != nil {
				return err
			}
			if so == nil {
				return fmt.Errorf("orden de venta %s: %w", in.SalesOrderID, domain.ErrNotFound)
			}
		}
		return r.PurchaseOrders.Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// GetOrder devuelve la orden de compra o ErrNotFound.
func (uc *PurchaseUseCase) GetOrder(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var po *entity.PurchaseOrder
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		var err error
		po, err = r.PurchaseOrders.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, fmt.Errorf("orden de compra %s: %w", id, domain.ErrNotFound)
	}
	return po, nil
}

// CancelOrder PENDING -> CANCELLED (una orden con recepciones ya no se cancela).
func (uc *PurchaseUseCase) CancelOrder(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var po *entity.PurchaseOrder
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		var err error
		po, err = r.PurchaseOrders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if po == nil {
			return fmt.Errorf("orden de compra %s: %w", id, domain.ErrNotFound)
		}
		if err := status.PurchaseOrders.Transition(po.Status, entity.PurchaseOrderCancelled); err != nil {
			return err
		}
		po.Status = entity.PurchaseOrderCancelled
		po.UpdatedAt = uc.svc.Now()
		return r.PurchaseOrders.Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

func (uc *PurchaseUseCase) lockRequest(ctx context.Context, r inventory.Repositories, id string) (*entity.PurchaseRequest, error) {
	pr, err := r.PurchaseRequests.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return nil, fmt.Errorf("solicitud de compra %s: %w", id, domain.ErrNotFound)
	}
	return pr, nil
}
