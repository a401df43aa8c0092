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
	_ repository.IssueNoteRepository   = (*IssueNoteRepo)(nil)
	_ repository.OutsourcingRepository = (*OutsourcingRepo)(nil)
)

// IssueNoteRepo notas de salida con sus líneas y retornos esperados.
type IssueNoteRepo struct {
	q Querier
}

// NewIssueNoteRepository construye el adaptador.
func NewIssueNoteRepository(q Querier) *IssueNoteRepo {
	return &IssueNoteRepo{q: q}
}

// Create persiste la nota, sus líneas y los retornos esperados.
func (r *IssueNoteRepo) Create(ctx context.Context, n *entity.IssueNote) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO issue_notes (id, code, warehouse_id, sales_order_id, category, supplier_id, status,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		n.ID, n.Code, n.WarehouseID, n.SalesOrderID, string(n.Category), n.SupplierID, string(n.Status),
		n.CreatedBy, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("nota de salida %s: %w", n.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert issue note: %w", err)
	}
	for i, l := range n.Lines {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO issue_note_lines (id, note_id, position, item_kind, item_id, quantity, demand_line_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, n.ID, i, string(l.Item.Kind), l.Item.ID, l.Quantity, l.DemandLineID); err != nil {
			return fmt.Errorf("insert issue note line: %w", err)
		}
	}
	for i, e := range n.ExpectedReturns {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO issue_note_expected_returns (note_id, position, item_kind, item_id, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			n.ID, i, string(e.Item.Kind), e.Item.ID, e.Quantity); err != nil {
			return fmt.Errorf("insert expected return: %w", err)
		}
	}
	return nil
}

func (r *IssueNoteRepo) get(ctx context.Context, id string, lock bool) (*entity.IssueNote, error) {
	var n entity.IssueNote
	var category, st string
	err := r.q.QueryRow(ctx, `
		SELECT id, code, warehouse_id, sales_order_id, category, supplier_id, status, created_by, created_at, updated_at
		FROM issue_notes WHERE id = $1`+lockClause(lock), id).
		Scan(&n.ID, &n.Code, &n.WarehouseID, &n.SalesOrderID, &category, &n.SupplierID, &st,
			&n.CreatedBy, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get issue note: %w", err)
	}
	n.Category = entity.IssueCategory(category)
	n.Status = entity.DocumentStatus(st)

	rows, err := r.q.Query(ctx, `
		SELECT id, item_kind, item_id, quantity, demand_line_id
		FROM issue_note_lines WHERE note_id = $1 ORDER BY position`, n.ID)
	if err != nil {
		return nil, fmt.Errorf("list issue note lines: %w", err)
	}
	for rows.Next() {
		l := entity.IssueLine{NoteID: n.ID}
		var kind, itemID string
		if err := rows.Scan(&l.ID, &kind, &itemID, &l.Quantity, &l.DemandLineID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan issue note line: %w", err)
		}
		l.Item = stockItem(kind, itemID)
		n.Lines = append(n.Lines, &l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.q.Query(ctx, `
		SELECT item_kind, item_id, quantity
		FROM issue_note_expected_returns WHERE note_id = $1 ORDER BY position`, n.ID)
	if err != nil {
		return nil, fmt.Errorf("list expected returns: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e entity.ExpectedReturn
		var kind, itemID string
		if err := rows.Scan(&kind, &itemID, &e.Quantity); err != nil {
			return nil, fmt.Errorf("scan expected return: %w", err)
		}
		e.Item = stockItem(kind, itemID)
		n.ExpectedReturns = append(n.ExpectedReturns, e)
	}
	return &n, rows.Err()
}

// GetByID nota con líneas o nil.
func (r *IssueNoteRepo) GetByID(ctx context.Context, id string) (*entity.IssueNote, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate nota bloqueada.
func (r *IssueNoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.IssueNote, error) {
	return r.get(ctx, id, true)
}

// Update persiste el estado (las líneas son inmutables tras la creación).
func (r *IssueNoteRepo) Update(ctx context.Context, n *entity.IssueNote) error {
	tag, err := r.q.Exec(ctx, `UPDATE issue_notes SET status = $2, updated_at = $3 WHERE id = $1`,
		n.ID, string(n.Status), n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update issue note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("nota de salida %s: %w", n.ID, domain.ErrNotFound)
	}
	return nil
}

// ─── maquila ──────────────────────────────────────────────────────────────────

// OutsourcingRepo registros de maquila; sus materiales viven en supply_lines.
type OutsourcingRepo struct {
	q Querier
}

// NewOutsourcingRepository construye el adaptador.
func NewOutsourcingRepository(q Querier) *OutsourcingRepo {
	return &OutsourcingRepo{q: q}
}

const outsourcingColumns = `id, issue_note_id, supplier_id, warehouse_id, status, created_at, updated_at`

// Create persiste el registro y sus materiales.
func (r *OutsourcingRepo) Create(ctx context.Context, o *entity.OutsourcingRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO outsourcing_records (`+outsourcingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.IssueNoteID, o.SupplierID, o.WarehouseID, string(o.Status), o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("maquila de la nota %s: %w", o.IssueNoteID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert outsourcing record: %w", err)
	}
	return upsertSupplyLines(ctx, r.q, ownerOutsourcing, o.ID, o.Materials)
}

func (r *OutsourcingRepo) getBy(ctx context.Context, column, value string, lock bool) (*entity.OutsourcingRecord, error) {
	var o entity.OutsourcingRecord
	var st string
	err := r.q.QueryRow(ctx,
		`SELECT `+outsourcingColumns+` FROM outsourcing_records WHERE `+column+` = $1`+lockClause(lock), value).
		Scan(&o.ID, &o.IssueNoteID, &o.SupplierID, &o.WarehouseID, &st, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outsourcing record: %w", err)
	}
	o.Status = entity.DocumentStatus(st)
	if o.Materials, err = loadSupplyLines(ctx, r.q, ownerOutsourcing, o.ID, lock); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByID registro con materiales o nil.
func (r *OutsourcingRepo) GetByID(ctx context.Context, id string) (*entity.OutsourcingRecord, error) {
	return r.getBy(ctx, "id", id, false)
}

// GetForUpdate registro bloqueado.
func (r *OutsourcingRepo) GetForUpdate(ctx context.Context, id string) (*entity.OutsourcingRecord, error) {
	return r.getBy(ctx, "id", id, true)
}

// FindByIssueNote registro abierto por una nota de salida (bloqueado) o nil.
func (r *OutsourcingRepo) FindByIssueNote(ctx context.Context, issueNoteID string) (*entity.OutsourcingRecord, error) {
	return r.getBy(ctx, "issue_note_id", issueNoteID, true)
}

// Update persiste estado y materiales (incluye líneas nuevas).
func (r *OutsourcingRepo) Update(ctx context.Context, o *entity.OutsourcingRecord) error {
	tag, err := r.q.Exec(ctx, `UPDATE outsourcing_records SET status = $2, updated_at = $3 WHERE id = $1`,
		o.ID, string(o.Status), o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update outsourcing record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("maquila %s: %w", o.ID, domain.ErrNotFound)
	}
	return upsertSupplyLines(ctx, r.q, ownerOutsourcing, o.ID, o.Materials)
}
