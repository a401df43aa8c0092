package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var (
	_ repository.SalesOrderRepository      = (*SalesOrderRepo)(nil)
	_ repository.PurchaseRequestRepository = (*PurchaseRequestRepo)(nil)
	_ repository.PurchaseOrderRepository   = (*PurchaseOrderRepo)(nil)
)

func lockClause(lock bool) string {
	if lock {
		return ` FOR UPDATE`
	}
	return ``
}

// ─── órdenes de venta ─────────────────────────────────────────────────────────

// SalesOrderRepo órdenes de venta y sus líneas de demanda.
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

// Create persiste la orden y sus líneas.
func (r *SalesOrderRepo) Create(ctx context.Context, o *entity.SalesOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales_orders (id, code, customer_id, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.Code, o.CustomerID, string(o.Status), o.CreatedBy, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("orden de venta %s: %w", o.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert sales order: %w", err)
	}
	if err := upsertDemandLines(ctx, r.q, o.ID, groupProduct, o.ProductLines); err != nil {
		return err
	}
	return upsertDemandLines(ctx, r.q, o.ID, groupMaterial, o.MaterialLines)
}

func (r *SalesOrderRepo) get(ctx context.Context, id string, lock bool) (*entity.SalesOrder, error) {
	var o entity.SalesOrder
	var st string
	err := r.q.QueryRow(ctx, `
		SELECT id, code, customer_id, status, created_by, created_at, updated_at
		FROM sales_orders WHERE id = $1`+lockClause(lock), id).
		Scan(&o.ID, &o.Code, &o.CustomerID, &st, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	o.Status = entity.SalesOrderStatus(st)
	o.ProductLines, o.MaterialLines, err = loadDemandLines(ctx, r.q, o.ID, lock)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByID orden con sus líneas o nil.
func (r *SalesOrderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate orden bloqueada (cabecera y líneas).
func (r *SalesOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.get(ctx, id, true)
}

// Update persiste estado y contadores de línea.
func (r *SalesOrderRepo) Update(ctx context.Context, o *entity.SalesOrder) error {
	tag, err := r.q.Exec(ctx, `UPDATE sales_orders SET status = $2, updated_at = $3 WHERE id = $1`,
		o.ID, string(o.Status), o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update sales order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("orden de venta %s: %w", o.ID, domain.ErrNotFound)
	}
	if err := upsertDemandLines(ctx, r.q, o.ID, groupProduct, o.ProductLines); err != nil {
		return err
	}
	return upsertDemandLines(ctx, r.q, o.ID, groupMaterial, o.MaterialLines)
}

// ─── solicitudes de compra ────────────────────────────────────────────────────

// PurchaseRequestRepo solicitudes de compra.
type PurchaseRequestRepo struct {
	q Querier
}

// NewPurchaseRequestRepository construye el adaptador.
func NewPurchaseRequestRepository(q Querier) *PurchaseRequestRepo {
	return &PurchaseRequestRepo{q: q}
}

const purchaseRequestColumns = `id, code, sales_order_id, status, created_by, created_at, updated_at`

func scanPurchaseRequest(row pgx.Row) (*entity.PurchaseRequest, error) {
	var p entity.PurchaseRequest
	var st string
	if err := row.Scan(&p.ID, &p.Code, &p.SalesOrderID, &st, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Status = entity.PurchaseRequestStatus(st)
	return &p, nil
}

// Create persiste la solicitud y sus líneas.
func (r *PurchaseRequestRepo) Create(ctx context.Context, p *entity.PurchaseRequest) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_requests (`+purchaseRequestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Code, p.SalesOrderID, string(p.Status), p.CreatedBy, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("solicitud de compra %s: %w", p.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert purchase request: %w", err)
	}
	return upsertSupplyLines(ctx, r.q, ownerPurchaseRequest, p.ID, p.Lines)
}

func (r *PurchaseRequestRepo) get(ctx context.Context, id string, lock bool) (*entity.PurchaseRequest, error) {
	p, err := scanPurchaseRequest(r.q.QueryRow(ctx,
		`SELECT `+purchaseRequestColumns+` FROM purchase_requests WHERE id = $1`+lockClause(lock), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase request: %w", err)
	}
	if p.Lines, err = loadSupplyLines(ctx, r.q, ownerPurchaseRequest, p.ID, lock); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID solicitud con líneas o nil.
func (r *PurchaseRequestRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate solicitud bloqueada.
func (r *PurchaseRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	return r.get(ctx, id, true)
}

// Update persiste estado y líneas.
func (r *PurchaseRequestRepo) Update(ctx context.Context, p *entity.PurchaseRequest) error {
	tag, err := r.q.Exec(ctx, `UPDATE purchase_requests SET status = $2, updated_at = $3 WHERE id = $1`,
		p.ID, string(p.Status), p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("solicitud de compra %s: %w", p.ID, domain.ErrNotFound)
	}
	return upsertSupplyLines(ctx, r.q, ownerPurchaseRequest, p.ID, p.Lines)
}

// ListBySalesOrder solicitudes ligadas a una orden de venta, por fecha de creación.
func (r *PurchaseRequestRepo) ListBySalesOrder(ctx context.Context, salesOrderID string) ([]*entity.PurchaseRequest, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+purchaseRequestColumns+` FROM purchase_requests WHERE sales_order_id = $1 ORDER BY created_at, id`,
		salesOrderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase requests: %w", err)
	}
	var out []*entity.PurchaseRequest
	for rows.Next() {
		p, err := scanPurchaseRequest(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan purchase request: %w", err)
		}
		out = append(out, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// las líneas se cargan después de cerrar el cursor (una tx no admite dos consultas abiertas)
	for _, p := range out {
		if p.Lines, err = loadSupplyLines(ctx, r.q, ownerPurchaseRequest, p.ID, false); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ─── órdenes de compra ────────────────────────────────────────────────────────

// PurchaseOrderRepo órdenes de compra.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador.
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la orden y sus líneas.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_orders (id, code, purchase_request_id, sales_order_id, supplier_id, warehouse_id,
			status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		o.ID, o.Code, o.PurchaseRequestID, o.SalesOrderID, o.SupplierID, o.WarehouseID,
		string(o.Status), o.CreatedBy, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("orden de compra %s: %w", o.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return upsertSupplyLines(ctx, r.q, ownerPurchaseOrder, o.ID, o.Lines)
}

func (r *PurchaseOrderRepo) get(ctx context.Context, id string, lock bool) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	var st string
	err := r.q.QueryRow(ctx, `
		SELECT id, code, purchase_request_id, sales_order_id, supplier_id, warehouse_id,
			status, created_by, created_at, updated_at
		FROM purchase_orders WHERE id = $1`+lockClause(lock), id).
		Scan(&o.ID, &o.Code, &o.PurchaseRequestID, &o.SalesOrderID, &o.SupplierID, &o.WarehouseID,
			&st, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	o.Status = entity.PurchaseOrderStatus(st)
	if o.Lines, err = loadSupplyLines(ctx, r.q, ownerPurchaseOrder, o.ID, lock); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByID orden con líneas o nil.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate orden bloqueada.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, true)
}

// Update persiste estado y contadores.
func (r *PurchaseOrderRepo) Update(ctx context.Context, o *entity.PurchaseOrder) error {
	tag, err := r.q.Exec(ctx, `UPDATE purchase_orders SET status = $2, updated_at = $3 WHERE id = $1`,
		o.ID, string(o.Status), o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("orden de compra %s: %w", o.ID, domain.ErrNotFound)
	}
	return upsertSupplyLines(ctx, r.q, ownerPurchaseOrder, o.ID, o.Lines)
}

// FindByLineID orden dueña de la línea o nil.
func (r *PurchaseOrderRepo) FindByLineID(ctx context.Context, lineID string) (*entity.PurchaseOrder, error) {
	var orderID string
	err := r.q.QueryRow(ctx,
		`SELECT order_id FROM supply_lines WHERE id = $1 AND owner_kind = $2`, lineID, ownerPurchaseOrder).
		Scan(&orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find purchase order by line: %w", err)
	}
	return r.GetByID(ctx, orderID)
}
