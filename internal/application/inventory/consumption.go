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

// DocumentRef documento que origina un movimiento.
type DocumentRef struct {
	ID   string
	Kind entity.DocumentKind
}

func (d DocumentRef) validate() error {
	if d.ID == "" || d.Kind == "" {
		return fmt.Errorf("documento origen requerido: %w", domain.ErrInvalidInput)
	}
	return nil
}

// IssueInput salida física de bodega.
// Con DemandOrderID se intenta primero el reservado de la orden y se actualizan sus líneas.
type IssueInput struct {
	WarehouseID   string
	Item          entity.StockItem
	Quantity      decimal.Decimal
	DemandOrderID string
	DemandLineID  string // opcional: si falta se usa la primera línea pendiente del ítem
	Document      DocumentRef
	Category      entity.IssueCategory
	SupplierID    string                  // maquilador (OUTSOURCING)
	ExpectedBack  []entity.ExpectedReturn // retorno esperado (OUTSOURCING); vacío = lo mismo que sale
	CreatedBy     string
}

func (in IssueInput) validate() error {
	if in.WarehouseID == "" {
		return fmt.Errorf("bodega requerida: %w", domain.ErrInvalidInput)
	}
	if err := in.Item.Validate(); err != nil {
		return err
	}
	if !in.Quantity.IsPositive() {
		return fmt.Errorf("cantidad a despachar debe ser > 0: %w", domain.ErrInvalidInput)
	}
	if err := entity.CheckScale(in.Quantity); err != nil {
		return err
	}
	return in.Document.validate()
}

// IssueResult resultado de una salida.
type IssueResult struct {
	Pool        entity.Pool
	Record      *entity.InventoryRecord // estado del registro tras la salida (Quantity 0 si se eliminó)
	Transaction *entity.TransactionRecord
	DemandLine  *entity.DemandLine
	OrderStatus entity.SalesOrderStatus
	Outsourcing *entity.OutsourcingRecord
}

// Issue registra una salida en una transacción propia.
func (s *Service) Issue(ctx context.Context, in IssueInput) (res *IssueResult, err error) {
	ctx, span := s.start(ctx, OpIssue, in.Item,
		attribute.String("ledger.warehouse", in.WarehouseID),
		attribute.String("ledger.demand_order", in.DemandOrderID),
		attribute.String("ledger.document", in.Document.ID),
		attribute.String("ledger.quantity", in.Quantity.String()),
	)
	defer func() { s.finish(span, OpIssue, err) }()

	if err = in.validate(); err != nil {
		return nil, err
	}
	err = s.tx.Run(ctx, func(r Repositories) error {
		if err := RequireWarehouse(ctx, r, in.WarehouseID); err != nil {
			return err
		}
		if err := RequireItem(ctx, r, in.Item); err != nil {
			return err
		}
		var txErr error
		res, txErr = s.IssueInTx(ctx, r, in)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, in.Item)
	s.metrics.Quantity(OpIssue, string(in.Item.Kind), in.Quantity.InexactFloat64())
	return res, nil
}

// IssueInTx ejecuta la salida con los repositorios de la transacción del caller.
// ErrInsufficientStock si ni el reservado de la orden ni el disponible cubren la cantidad.
func (s *Service) IssueInTx(ctx context.Context, r Repositories, in IssueInput) (*IssueResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := s.Now()

	var rec *entity.InventoryRecord
	if in.DemandOrderID != "" {
		reserved, err := r.Ledger.FindForUpdate(ctx, entity.ReservedKey(in.WarehouseID, in.Item, in.DemandOrderID))
		if err != nil {
			return nil, fmt.Errorf("buscar reservado: %w", err)
		}
		if reserved != nil && reserved.Quantity.GreaterThanOrEqual(in.Quantity) {
			rec = reserved
		}
	}
	if rec == nil {
		available, err := r.Ledger.FindForUpdate(ctx, entity.AvailableKey(in.WarehouseID, in.Item))
		if err != nil {
			return nil, fmt.Errorf("buscar disponible: %w", err)
		}
		if available == nil || available.Quantity.LessThan(in.Quantity) {
			have := decimal.Zero
			if available != nil {
				have = available.Quantity
			}
			return nil, fmt.Errorf("despachar %s %s en %s (disponible %s): %w",
				in.Quantity.String(), in.Item, in.WarehouseID, have.String(), domain.ErrInsufficientStock)
		}
		rec = available
	}

	rec.Quantity = rec.Quantity.Sub(in.Quantity)
	rec.LastUpdated = now
	if rec.Pool == entity.PoolReserved && rec.Quantity.IsZero() {
		if err := r.Ledger.Delete(ctx, rec.ID); err != nil {
			return nil, fmt.Errorf("eliminar reservado agotado: %w", err)
		}
	} else if err := r.Ledger.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("guardar registro: %w", err)
	}

	txRec := &entity.TransactionRecord{
		ID:                 uuid.New().String(),
		WarehouseID:        in.WarehouseID,
		Item:               in.Item,
		Direction:          entity.DirectionExport,
		Quantity:           in.Quantity,
		Timestamp:          now,
		SourceDocumentID:   in.Document.ID,
		SourceDocumentKind: in.Document.Kind,
		CreatedBy:          in.CreatedBy,
	}
	if err := r.Transactions.Append(ctx, txRec); err != nil {
		return nil, fmt.Errorf("registrar salida: %w", err)
	}

	res := &IssueResult{Pool: rec.Pool, Record: rec, Transaction: txRec}

	if in.DemandOrderID != "" {
		line, orderStatus, err := s.rollUpDemand(ctx, r, in)
		if err != nil {
			return nil, err
		}
		res.DemandLine = line
		res.OrderStatus = orderStatus
	}

	if in.Category == entity.IssueOutsourcing {
		expected := in.ExpectedBack
		if len(expected) == 0 {
			expected = []entity.ExpectedReturn{{Item: in.Item, Quantity: in.Quantity}}
		}
		out, err := s.OpenOutsourcingInTx(ctx, r, OutsourcingInput{
			IssueNoteID: in.Document.ID,
			SupplierID:  in.SupplierID,
			WarehouseID: in.WarehouseID,
			Expected:    expected,
		})
		if err != nil {
			return nil, err
		}
		res.Outsourcing = out
	}
	return res, nil
}

// rollUpDemand suma la salida a la línea de la orden de venta y deriva su nuevo estado.
// Si la demanda es una solicitud de compra sin orden de venta no hay línea que actualizar:
// sólo se consume su reserva.
func (s *Service) rollUpDemand(ctx context.Context, r Repositories, in IssueInput) (*entity.DemandLine, entity.SalesOrderStatus, error) {
	order, err := r.SalesOrders.GetForUpdate(ctx, in.DemandOrderID)
	if err != nil {
		return nil, "", fmt.Errorf("cargar orden de venta: %w", err)
	}
	if order == nil {
		if in.DemandLineID == "" {
			pr, err := r.PurchaseRequests.GetByID(ctx, in.DemandOrderID)
			if err != nil {
				return nil, "", fmt.Errorf("cargar solicitud de compra: %w", err)
			}
			if pr != nil {
				return nil, "", nil
			}
		}
		return nil, "", fmt.Errorf("orden de demanda %s: %w", in.DemandOrderID, domain.ErrNotFound)
	}

	var line *entity.DemandLine
	if in.DemandLineID != "" {
		line = order.FindLine(in.DemandLineID)
		if line == nil {
			return nil, "", fmt.Errorf("línea %s de la orden %s: %w", in.DemandLineID, order.ID, domain.ErrNotFound)
		}
	} else {
		line = order.LineFor(in.Item)
		if line == nil {
			return nil, "", fmt.Errorf("la orden %s no demanda %s: %w", order.ID, in.Item, domain.ErrInvalidInput)
		}
	}
	if line.Item != in.Item {
		return nil, "", fmt.Errorf("línea %s es de %s, no de %s: %w", line.ID, line.Item, in.Item, domain.ErrInvalidInput)
	}
	if err := line.AddReceived(in.Quantity); err != nil {
		return nil, "", err
	}

	next := status.SalesOrderAfterIssue(order)
	if err := status.SalesOrders.Transition(order.Status, next); err != nil {
		return nil, "", err
	}
	if next != order.Status {
		s.log.Info().
			Str("sales_order", order.ID).
			Str("from", string(order.Status)).
			Str("to", string(next)).
			Msg("orden de venta cambia de estado por salida")
	}
	order.Status = next
	order.UpdatedAt = s.Now()
	if err := r.SalesOrders.Update(ctx, order); err != nil {
		return nil, "", fmt.Errorf("actualizar orden de venta: %w", err)
	}
	return line, order.Status, nil
}

// OutsourcingInput apertura de un registro de maquila.
type OutsourcingInput struct {
	IssueNoteID string
	SupplierID  string
	WarehouseID string
	Expected    []entity.ExpectedReturn
}

// OpenOutsourcingInTx abre el seguimiento de maquila en PENDING. Si la nota ya tiene uno,
// acumula las cantidades esperadas en él.
func (s *Service) OpenOutsourcingInTx(ctx context.Context, r Repositories, in OutsourcingInput) (*entity.OutsourcingRecord, error) {
	now := s.Now()
	existing, err := r.Outsourcing.FindByIssueNote(ctx, in.IssueNoteID)
	if err != nil {
		return nil, fmt.Errorf("buscar maquila: %w", err)
	}
	if existing != nil {
		for _, e := range in.Expected {
			addExpected(existing, e)
		}
		existing.UpdatedAt = now
		if err := r.Outsourcing.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("actualizar maquila: %w", err)
		}
		return existing, nil
	}

	rec := &entity.OutsourcingRecord{
		ID:          uuid.New().String(),
		IssueNoteID: in.IssueNoteID,
		SupplierID:  in.SupplierID,
		WarehouseID: in.WarehouseID,
		Status:      entity.DocumentPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, e := range in.Expected {
		addExpected(rec, e)
	}
	if err := r.Outsourcing.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("crear maquila: %w", err)
	}
	s.log.Info().
		Str("outsourcing", rec.ID).
		Str("issue_note", in.IssueNoteID).
		Str("supplier", in.SupplierID).
		Msg("registro de maquila abierto")
	return rec, nil
}

func addExpected(rec *entity.OutsourcingRecord, e entity.ExpectedReturn) {
	for _, m := range rec.Materials {
		if m.Item == e.Item {
			m.Ordered = m.Ordered.Add(e.Quantity)
			m.Recompute()
			return
		}
	}
	line := &entity.SupplyLine{
		ID:       uuid.New().String(),
		OrderID:  rec.ID,
		Item:     e.Item,
		Ordered:  e.Quantity,
		Received: decimal.Zero,
	}
	line.Recompute()
	rec.Materials = append(rec.Materials, line)
}
