package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo log de movimientos sobre transaction_records.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Append inserta un movimiento.
func (r *TransactionRepo) Append(ctx context.Context, tx *entity.TransactionRecord) error {
	if !tx.Quantity.IsPositive() {
		return fmt.Errorf("movimiento con cantidad %s: %w", tx.Quantity.String(), domain.ErrInvalidInput)
	}
	query := `
		INSERT INTO transaction_records (id, warehouse_id, item_kind, item_id, direction, quantity, ts,
			source_document_id, source_document_kind, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.WarehouseID, string(tx.Item.Kind), tx.Item.ID, string(tx.Direction), tx.Quantity, tx.Timestamp,
		tx.SourceDocumentID, string(tx.SourceDocumentKind), tx.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("movimiento %s: %w", tx.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert transaction record: %w", err)
	}
	return nil
}

// ListByDocument movimientos de un documento en orden cronológico.
func (r *TransactionRepo) ListByDocument(ctx context.Context, documentID string) ([]*entity.TransactionRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, warehouse_id, item_kind, item_id, direction, quantity, ts, source_document_id, source_document_kind, created_by
		FROM transaction_records WHERE source_document_id = $1 ORDER BY ts, id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list transaction records: %w", err)
	}
	defer rows.Close()
	var out []*entity.TransactionRecord
	for rows.Next() {
		var t entity.TransactionRecord
		var kind, itemID, direction, docKind string
		if err := rows.Scan(&t.ID, &t.WarehouseID, &kind, &itemID, &direction, &t.Quantity, &t.Timestamp,
			&t.SourceDocumentID, &docKind, &t.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan transaction record: %w", err)
		}
		t.Item = stockItem(kind, itemID)
		t.Direction = entity.Direction(direction)
		t.SourceDocumentKind = entity.DocumentKind(docKind)
		out = append(out, &t)
	}
	return out, rows.Err()
}

// Totals suma entradas y salidas del filtro; [From, To).
func (r *TransactionRepo) Totals(ctx context.Context, f repository.MovementFilter) (repository.MovementTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(quantity) FILTER (WHERE direction = 'IMPORT'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE direction = 'EXPORT'), 0)
		FROM transaction_records
		WHERE item_kind = $1 AND item_id = $2
		  AND ($3 = '' OR warehouse_id = $3)
		  AND ($4::timestamptz IS NULL OR ts >= $4)
		  AND ($5::timestamptz IS NULL OR ts < $5)`
	totals := repository.MovementTotals{Imports: decimal.Zero, Exports: decimal.Zero}
	err := r.q.QueryRow(ctx, query, string(f.Item.Kind), f.Item.ID, f.WarehouseID, f.From, f.To).
		Scan(&totals.Imports, &totals.Exports)
	if err != nil {
		return repository.MovementTotals{}, fmt.Errorf("sum transaction records: %w", err)
	}
	return totals, nil
}
