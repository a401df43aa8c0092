package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// MovementFilter filtro de movimientos. From incluido, To excluido; nil no limita.
type MovementFilter struct {
	Item        entity.StockItem
	WarehouseID string
	From        *time.Time
	To          *time.Time
}

// MovementTotals sumas de entradas y salidas.
type MovementTotals struct {
	Imports decimal.Decimal
	Exports decimal.Decimal
}

// TransactionRepository puerto del log de movimientos (solo inserción).
type TransactionRepository interface {
	Append(ctx context.Context, tx *entity.TransactionRecord) error
	ListByDocument(ctx context.Context, documentID string) ([]*entity.TransactionRecord, error)
	Totals(ctx context.Context, f MovementFilter) (MovementTotals, error)
}
