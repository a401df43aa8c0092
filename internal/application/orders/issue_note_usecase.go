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

// IssueNoteUseCase notas de salida: se crean en PENDING y al contabilizarse despachan todas
// sus líneas en una sola transacción.
type IssueNoteUseCase struct {
	svc *inventory.Service
}

// NewIssueNoteUseCase construye el caso de uso.
func NewIssueNoteUseCase(svc *inventory.Service) *IssueNoteUseCase {
	return &IssueNoteUseCase{svc: svc}
}

// CreateIssueNoteInput alta de una nota de salida.
type CreateIssueNoteInput struct {
	Code            string
	WarehouseID     string
	SalesOrderID    string
	Category        entity.IssueCategory
	SupplierID      string
	Lines           []entity.IssueLine
	ExpectedReturns []entity.ExpectedReturn
	CreatedBy       string
}

// Create registra la nota en PENDING (sin mover stock).
func (uc *IssueNoteUseCase) Create(ctx context.Context, in CreateIssueNoteInput) (*entity.IssueNote, error) {
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("nota sin líneas: %w", domain.ErrInvalidInput)
	}
	switch in.Category {
	case entity.IssueSale, entity.IssueProduction:
	case entity.IssueOutsourcing:
		if in.SupplierID == "" {
			return nil, fmt.Errorf("maquila sin proveedor: %w", domain.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("categoría de salida %q: %w", in.Category, domain.ErrInvalidInput)
	}
	now := uc.svc.Now()
	note := &entity.IssueNote{
		ID:              uuid.New().String(),
		Code:            documentCode(in.Code, "IN"),
		WarehouseID:     in.WarehouseID,
		SalesOrderID:    in.SalesOrderID,
		Category:        in.Category,
		SupplierID:      in.SupplierID,
		Status:          entity.DocumentPending,
		ExpectedReturns: in.ExpectedReturns,
		CreatedBy:       in.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	lineInputs := make([]LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		line := l
		line.ID = uuid.New().String()
		line.NoteID = note.ID
		note.Lines = append(note.Lines, &line)
		lineInputs = append(lineInputs, LineInput{Item: l.Item, Quantity: l.Quantity})
	}
	for _, e := range in.ExpectedReturns {
		lineInputs = append(lineInputs, LineInput{Item: e.Item, Quantity: e.Quantity})
	}

	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		if err := inventory.RequireWarehouse(ctx, r, in.WarehouseID); err != nil {
			return err
		}
		if err := validateLines(ctx, r, lineInputs); err != nil {
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
		return r.IssueNotes.Create(ctx, note)
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// PostResult resultado de contabilizar una nota.
type PostResult struct {
	Note        *entity.IssueNote
	Issues      []*inventory.IssueResult
	Outsourcing *entity.OutsourcingRecord
}

// Post despacha todas las líneas (consumiendo primero lo reservado para la orden de venta),
// completa la nota y, si es de maquila, abre un único registro de seguimiento.
// Si una línea falla no se aplica ninguna.
func (uc *IssueNoteUseCase) Post(ctx context.Context, noteID, actor string) (*PostResult, error) {
	var res *PostResult
	var items []entity.StockItem
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		items = items[:0]
		note, err := r.IssueNotes.GetForUpdate(ctx, noteID)
		if err != nil {
			return err
		}
		if note == nil {
			return fmt.Errorf("nota de salida %s: %w", noteID, domain.ErrNotFound)
		}
		if note.Status == entity.DocumentCompleted {
			return fmt.Errorf("nota %s ya contabilizada: %w", note.ID, domain.ErrConflict)
		}
		if err := status.Documents.Transition(note.Status, entity.DocumentCompleted); err != nil {
			return err
		}
		createdBy := actor
		if createdBy == "" {
			createdBy = note.CreatedBy
		}
		res = &PostResult{Note: note}
		for _, line := range note.Lines {
			issued, err := uc.svc.IssueInTx(ctx, r, inventory.IssueInput{
				WarehouseID:   note.WarehouseID,
				Item:          line.Item,
				Quantity:      line.Quantity,
				DemandOrderID: note.SalesOrderID,
				DemandLineID:  line.DemandLineID,
				Document:      inventory.DocumentRef{ID: note.ID, Kind: entity.DocumentIssueNote},
				CreatedBy:     createdBy,
			})
			if err != nil {
				return fmt.Errorf("línea %s: %w", line.ID, err)
			}
			res.Issues = append(res.Issues, issued)
			items = append(items, line.Item)
		}
		if note.Category == entity.IssueOutsourcing {
			res.Outsourcing, err = uc.svc.OpenOutsourcingInTx(ctx, r, inventory.OutsourcingInput{
				IssueNoteID: note.ID,
				SupplierID:  note.SupplierID,
				WarehouseID: note.WarehouseID,
				Expected:    expectedReturns(note),
			})
			if err != nil {
				return err
			}
		}
		note.Status = entity.DocumentCompleted
		note.UpdatedAt = uc.svc.Now()
		return r.IssueNotes.Update(ctx, note)
	})
	if err != nil {
		return nil, err
	}
	uc.svc.InvalidateCache(ctx, items...)
	return res, nil
}

// expectedReturns retorno declarado en la nota; sin declarar se espera de vuelta lo que sale.
func expectedReturns(note *entity.IssueNote) []entity.ExpectedReturn {
	if len(note.ExpectedReturns) > 0 {
		return note.ExpectedReturns
	}
	out := make([]entity.ExpectedReturn, 0, len(note.Lines))
	for _, l := range note.Lines {
		out = append(out, entity.ExpectedReturn{Item: l.Item, Quantity: l.Quantity})
	}
	return out
}

// Cancel anula una nota aún no contabilizada.
func (uc *IssueNoteUseCase) Cancel(ctx context.Context, noteID string) (*entity.IssueNote, error) {
	var note *entity.IssueNote
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		var err error
		note, err = r.IssueNotes.GetForUpdate(ctx, noteID)
		if err != nil {
			return err
		}
		if note == nil {
			return fmt.Errorf("nota de salida %s: %w", noteID, domain.ErrNotFound)
		}
		if err := status.Documents.Transition(note.Status, entity.DocumentCanceled); err != nil {
			return err
		}
		note.Status = entity.DocumentCanceled
		note.UpdatedAt = uc.svc.Now()
		return r.IssueNotes.Update(ctx, note)
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// Get devuelve la nota o ErrNotFound.
func (uc *IssueNoteUseCase) Get(ctx context.Context, id string) (*entity.IssueNote, error) {
	var note *entity.IssueNote
	err := uc.svc.TxRunner().Run(ctx, func(r inventory.Repositories) error {
		var err error
		note, err = r.IssueNotes.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fmt.Errorf("nota de salida %s: %w", id, domain.ErrNotFound)
	}
	return note, nil
}
