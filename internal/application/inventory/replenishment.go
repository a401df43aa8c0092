package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/status"
)

// ReceiveInput entrada física a bodega, opcionalmente contra una línea de orden de compra.
type ReceiveInput struct {
	WarehouseID  string
	Item         entity.StockItem
	Quantity     decimal.Decimal
	Document     DocumentRef
	SupplyLineID string
	CreatedBy    string
}

func (in ReceiveInput) validate() error {
	if in.WarehouseID == "" {
		return fmt.Errorf("bodega requerida: %w", domain.ErrInvalidInput)
	}
	if err := in.Item.Validate(); err != nil {
		return err
	}
	if !in.Quantity.IsPositive() {
		return fmt.Errorf("cantidad recibida debe ser > 0: %w", domain.ErrInvalidInput)
	}
	if err := entity.CheckScale(in.Quantity); err != nil {
		return err
	}
	return in.Document.validate()
}

// ReceiveResult resultado de una entrada.
type ReceiveResult struct {
	Pool          entity.Pool
	DemandOrderID string // orden de venta a la que quedó reservada la entrada (si aplica)
	Record        *entity.InventoryRecord
	Transaction   *entity.TransactionRecord
	SupplyLine    *entity.SupplyLine
	OrderStatus   entity.PurchaseOrderStatus
}

// ReceiptLine línea de una nota de recepción.
type ReceiptLine struct {
	Item         entity.StockItem
	Quantity     decimal.Decimal
	SupplyLineID string
}

// ReceiptInput nota de recepción con varias líneas, aplicada en una sola transacción.
type ReceiptInput struct {
	WarehouseID string
	Document    DocumentRef
	Lines       []ReceiptLine
	CreatedBy   string
}

// Receive registra una entrada en una transacción propia.
func (s *Service) Receive(ctx context.Context, in ReceiveInput) (*ReceiveResult, error) {
	results, err := s.ReceiveNote(ctx, ReceiptInput{
		WarehouseID: in.WarehouseID,
		Document:    in.Document,
		CreatedBy:   in.CreatedBy,
		Lines:       []ReceiptLine{{Item: in.Item, Quantity: in.Quantity, SupplyLineID: in.SupplyLineID}},
	})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// ReceiveNote aplica todas las líneas de una nota de recepción; si alguna falla no se aplica ninguna.
func (s *Service) ReceiveNote(ctx context.Context, in ReceiptInput) (results []*ReceiveResult, err error) {
	var first entity.StockItem
	if len(in.Lines) > 0 {
		first = in.Lines[0].Item
	}
	ctx, span := s.start(ctx, OpReceive, first,
		attribute.String("ledger.warehouse", in.WarehouseID),
		attribute.String("ledger.document", in.Document.ID),
		attribute.Int("ledger.lines", len(in.Lines)),
	)
	defer func() { s.finish(span, OpReceive, err) }()

	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("nota de recepción sin líneas: %w", domain.ErrInvalidInput)
	}
	items := make([]entity.StockItem, 0, len(in.Lines))
	err = s.tx.Run(ctx, func(r Repositories) error {
		results = results[:0]
		if err := RequireWarehouse(ctx, r, in.WarehouseID); err != nil {
			return err
		}
		for _, l := range in.Lines {
			if err := RequireItem(ctx, r, l.Item); err != nil {
				return err
			}
			res, err := s.ReceiveInTx(ctx, r, ReceiveInput{
				WarehouseID:  in.WarehouseID,
				Item:         l.Item,
				Quantity:     l.Quantity,
				Document:     in.Document,
				SupplyLineID: l.SupplyLineID,
				CreatedBy:    in.CreatedBy,
			})
			if err != nil {
				return err
			}
			results = append(results, res)
			items = append(items, l.Item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, items...)
	for _, l := range in.Lines {
		s.metrics.Quantity(OpReceive, string(l.Item.Kind), l.Quantity.InexactFloat64())
	}
	return results, nil
}

// ReceiveInTx ejecuta la entrada con los repositorios de la transacción del caller.
func (s *Service) ReceiveInTx(ctx context.Context, r Repositories, in ReceiveInput) (*ReceiveResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := s.Now()
	res := &ReceiveResult{Pool: entity.PoolAvailable}

	var po *entity.PurchaseOrder
	if in.SupplyLineID != "" {
		owner, err := r.PurchaseOrders.FindByLineID(ctx, in.SupplyLineID)
		if err != nil {
			return nil, fmt.Errorf("buscar orden de compra: %w", err)
		}
		if owner == nil {
			return nil, fmt.Errorf("línea de compra %s: %w", in.SupplyLineID, domain.ErrNotFound)
		}
		po, err = r.PurchaseOrders.GetForUpdate(ctx, owner.ID)
		if err != nil {
			return nil, fmt.Errorf("bloquear orden de compra: %w", err)
		}
		if po == nil {
			return nil, fmt.Errorf("orden de compra %s: %w", owner.ID, domain.ErrNotFound)
		}
		res.SupplyLine = entity.FindSupplyLine(po.Lines, in.SupplyLineID)
		if res.SupplyLine == nil {
			return nil, fmt.Errorf("línea de compra %s: %w", in.SupplyLineID, domain.ErrNotFound)
		}
		if res.SupplyLine.Item != in.Item {
			return nil, fmt.Errorf("línea %s es de %s, no de %s: %w",
				in.SupplyLineID, res.SupplyLine.Item, in.Item, domain.ErrInvalidInput)
		}
		if in.Item.IsMaterial() {
			demand, err := salesOrderOf(ctx, r, po)
			if err != nil {
				return nil, err
			}
			if demand != "" {
				res.Pool = entity.PoolReserved
				res.DemandOrderID = demand
			}
		}
	}

	key := entity.AvailableKey(in.WarehouseID, in.Item)
	if res.Pool == entity.PoolReserved {
		key = entity.ReservedKey(in.WarehouseID, in.Item, res.DemandOrderID)
	}
	rec, err := r.Ledger.AddQuantity(ctx, key, in.Quantity, now)
	if err != nil {
		return nil, fmt.Errorf("sumar entrada: %w", err)
	}
	res.Record = rec

	res.Transaction = &entity.TransactionRecord{
		ID:                 uuid.New().String(),
		WarehouseID:        in.WarehouseID,
		Item:               in.Item,
		Direction:          entity.DirectionImport,
		Quantity:           in.Quantity,
		Timestamp:          now,
		SourceDocumentID:   in.Document.ID,
		SourceDocumentKind: in.Document.Kind,
		CreatedBy:          in.CreatedBy,
	}
	if err := r.Transactions.Append(ctx, res.Transaction); err != nil {
		return nil, fmt.Errorf("registrar entrada: %w", err)
	}

	if po != nil {
		res.SupplyLine.AddReceived(in.Quantity)
		next := status.SupplyAfterReceipt(po.Lines)
		if err := status.PurchaseOrders.Transition(po.Status, next); err != nil {
			return nil, err
		}
		if next != po.Status {
			s.log.Info().
				Str("purchase_order", po.ID).
				Str("from", string(po.Status)).
				Str("to", string(next)).
				Msg("orden de compra cambia de estado por recepción")
		}
		po.Status = next
		po.UpdatedAt = now
		if err := r.PurchaseOrders.Update(ctx, po); err != nil {
			return nil, fmt.Errorf("actualizar orden de compra: %w", err)
		}
		res.OrderStatus = po.Status
	}
	return res, nil
}

// salesOrderOf sigue la cadena de compra hasta la orden de venta (directa o vía la solicitud).
func salesOrderOf(ctx context.Context, r Repositories, po *entity.PurchaseOrder) (string, error) {
	if po.SalesOrderID != "" {
		return po.SalesOrderID, nil
	}
	if po.PurchaseRequestID == "" {
		return "", nil
	}
	pr, err := r.PurchaseRequests.GetByID(ctx, po.PurchaseRequestID)
	if err != nil {
		return "", fmt.Errorf("cargar solicitud de compra: %w", err)
	}
	if pr == nil {
		return "", nil
	}
	return pr.SalesOrderID, nil
}
