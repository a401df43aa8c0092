package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.TransactionRepository = (*transactionRepo)(nil)

type transactionRepo struct {
	st *state
}

func (r *transactionRepo) Append(_ context.Context, tx *entity.TransactionRecord) error {
	if !tx.Quantity.IsPositive() {
		return fmt.Errorf("movimiento con cantidad no positiva: %w", domain.ErrInvalidInput)
	}
	c := *tx
	r.st.transactions = append(r.st.transactions, &c)
	return nil
}

func (r *transactionRepo) ListByDocument(_ context.Context, documentID string) ([]*entity.TransactionRecord, error) {
	var out []*entity.TransactionRecord
	for _, tx := range r.st.transactions {
		if tx.SourceDocumentID == documentID {
			c := *tx
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *transactionRepo) Totals(_ context.Context, f repository.MovementFilter) (repository.MovementTotals, error) {
	totals := repository.MovementTotals{Imports: decimal.Zero, Exports: decimal.Zero}
	for _, tx := range r.st.transactions {
		if tx.Item != f.Item {
			continue
		}
		if f.WarehouseID != "" && tx.WarehouseID != f.WarehouseID {
			continue
		}
		if f.From != nil && tx.Timestamp.Before(*f.From) {
			continue
		}
		if f.To != nil && !tx.Timestamp.Before(*f.To) {
			continue
		}
		if tx.Direction == entity.DirectionImport {
			totals.Imports = totals.Imports.Add(tx.Quantity)
		} else {
			totals.Exports = totals.Exports.Add(tx.Quantity)
		}
	}
	return totals, nil
}
