package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var (
	_ repository.SalesOrderRepository      = (*salesOrderRepo)(nil)
	_ repository.PurchaseRequestRepository = (*purchaseRequestRepo)(nil)
	_ repository.PurchaseOrderRepository   = (*purchaseOrderRepo)(nil)
	_ repository.IssueNoteRepository       = (*issueNoteRepo)(nil)
	_ repository.OutsourcingRepository     = (*outsourcingRepo)(nil)
)

// ─── órdenes de venta ─────────────────────────────────────────────────────────

type salesOrderRepo struct{ st *state }

func (r *salesOrderRepo) Create(_ context.Context, o *entity.SalesOrder) error {
	if _, ok := r.st.salesOrders[o.ID]; ok {
		return fmt.Errorf("orden de venta %s: %w", o.ID, domain.ErrDuplicate)
	}
	r.st.salesOrders[o.ID] = o.Clone()
	return nil
}

func (r *salesOrderRepo) GetByID(_ context.Context, id string) (*entity.SalesOrder, error) {
	if o, ok := r.st.salesOrders[id]; ok {
		return o.Clone(), nil
	}
	return nil, nil
}

func (r *salesOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *salesOrderRepo) Update(_ context.Context, o *entity.SalesOrder) error {
	if _, ok := r.st.salesOrders[o.ID]; !ok {
		return fmt.Errorf("orden de venta %s: %w", o.ID, domain.ErrNotFound)
	}
	r.st.salesOrders[o.ID] = o.Clone()
	return nil
}

// ─── solicitudes de compra ────────────────────────────────────────────────────

type purchaseRequestRepo struct{ st *state }

func (r *purchaseRequestRepo) Create(_ context.Context, p *entity.PurchaseRequest) error {
	if _, ok := r.st.purchaseRequests[p.ID]; ok {
		return fmt.Errorf("solicitud de compra %s: %w", p.ID, domain.ErrDuplicate)
	}
	r.st.purchaseRequests[p.ID] = p.Clone()
	return nil
}

func (r *purchaseRequestRepo) GetByID(_ context.Context, id string) (*entity.PurchaseRequest, error) {
	if p, ok := r.st.purchaseRequests[id]; ok {
		return p.Clone(), nil
	}
	return nil, nil
}

func (r *purchaseRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *purchaseRequestRepo) Update(_ context.Context, p *entity.PurchaseRequest) error {
	if _, ok := r.st.purchaseRequests[p.ID]; !ok {
		return fmt.Errorf("solicitud de compra %s: %w", p.ID, domain.ErrNotFound)
	}
	r.st.purchaseRequests[p.ID] = p.Clone()
	return nil
}

func (r *purchaseRequestRepo) ListBySalesOrder(_ context.Context, salesOrderID string) ([]*entity.PurchaseRequest, error) {
	var out []*entity.PurchaseRequest
	for _, p := range r.st.purchaseRequests {
		if p.SalesOrderID == salesOrderID {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ─── órdenes de compra ────────────────────────────────────────────────────────

type purchaseOrderRepo struct{ st *state }

func (r *purchaseOrderRepo) Create(_ context.Context, o *entity.PurchaseOrder) error {
	if _, ok := r.st.purchaseOrders[o.ID]; ok {
		return fmt.Errorf("orden de compra %s: %w", o.ID, domain.ErrDuplicate)
	}
	r.st.purchaseOrders[o.ID] = o.Clone()
	return nil
}

func (r *purchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	if o, ok := r.st.purchaseOrders[id]; ok {
		return o.Clone(), nil
	}
	return nil, nil
}

func (r *purchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *purchaseOrderRepo) Update(_ context.Context, o *entity.PurchaseOrder) error {
	if _, ok := r.st.purchaseOrders[o.ID]; !ok {
		return fmt.Errorf("orden de compra %s: %w", o.ID, domain.ErrNotFound)
	}
	r.st.purchaseOrders[o.ID] = o.Clone()
	return nil
}

func (r *purchaseOrderRepo) FindByLineID(_ context.Context, lineID string) (*entity.PurchaseOrder, error) {
	for _, o := range r.st.purchaseOrders {
		if entity.FindSupplyLine(o.Lines, lineID) != nil {
			return o.Clone(), nil
		}
	}
	return nil, nil
}

// ─── notas de salida ──────────────────────────────────────────────────────────

type issueNoteRepo struct{ st *state }

func (r *issueNoteRepo) Create(_ context.Context, n *entity.IssueNote) error {
	if _, ok := r.st.issueNotes[n.ID]; ok {
		return fmt.Errorf("nota de salida %s: %w", n.ID, domain.ErrDuplicate)
	}
	r.st.issueNotes[n.ID] = n.Clone()
	return nil
}

func (r *issueNoteRepo) GetByID(_ context.Context, id string) (*entity.IssueNote, error) {
	if n, ok := r.st.issueNotes[id]; ok {
		return n.Clone(), nil
	}
	return nil, nil
}

func (r *issueNoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.IssueNote, error) {
	return r.GetByID(ctx, id)
}

func (r *issueNoteRepo) Update(_ context.Context, n *entity.IssueNote) error {
	if _, ok := r.st.issueNotes[n.ID]; !ok {
		return fmt.Errorf("nota de salida %s: %w", n.ID, domain.ErrNotFound)
	}
	r.st.issueNotes[n.ID] = n.Clone()
	return nil
}

// ─── maquila ──────────────────────────────────────────────────────────────────

type outsourcingRepo struct{ st *state }

func (r *outsourcingRepo) Create(_ context.Context, o *entity.OutsourcingRecord) error {
	if _, ok := r.st.outsourcing[o.ID]; ok {
		return fmt.Errorf("maquila %s: %w", o.ID, domain.ErrDuplicate)
	}
	r.st.outsourcing[o.ID] = o.Clone()
	return nil
}

func (r *outsourcingRepo) GetByID(_ context.Context, id string) (*entity.OutsourcingRecord, error) {
	if o, ok := r.st.outsourcing[id]; ok {
		return o.Clone(), nil
	}
	return nil, nil
}

func (r *outsourcingRepo) GetForUpdate(ctx context.Context, id string) (*entity.OutsourcingRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *outsourcingRepo) Update(_ context.Context, o *entity.OutsourcingRecord) error {
	if _, ok := r.st.outsourcing[o.ID]; !ok {
		return fmt.Errorf("maquila %s: %w", o.ID, domain.ErrNotFound)
	}
	r.st.outsourcing[o.ID] = o.Clone()
	return nil
}

func (r *outsourcingRepo) FindByIssueNote(_ context.Context, issueNoteID string) (*entity.OutsourcingRecord, error) {
	for _, o := range r.st.outsourcing {
		if o.IssueNoteID == issueNoteID {
			return o.Clone(), nil
		}
	}
	return nil, nil
}
