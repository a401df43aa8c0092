package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED + bloqueos de fila).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repositories) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(Repositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repositories arma todos los repositorios sobre q (pool o tx).
func Repositories(q Querier) inventory.Repositories {
	return inventory.Repositories{
		Ledger:           NewLedgerRepository(q),
		Transactions:     NewTransactionRepository(q),
		Warehouses:       NewWarehouseRepository(q),
		Items:            NewItemRepository(q),
		SalesOrders:      NewSalesOrderRepository(q),
		PurchaseRequests: NewPurchaseRequestRepository(q),
		PurchaseOrders:   NewPurchaseOrderRepository(q),
		IssueNotes:       NewIssueNoteRepository(q),
		Outsourcing:      NewOutsourcingRepository(q),
	}
}
