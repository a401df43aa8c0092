// Package memory implementa los repositorios del libro sobre un estado en memoria.
// Sirve como driver de desarrollo (APP_STORAGE=memory) y como base de los tests del motor.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// state todo lo persistido. Se clona completo al iniciar cada transacción.
type state struct {
	records      map[int64]*entity.InventoryRecord
	byKey        map[entity.LedgerKey]int64
	nextRecordID int64

	transactions []*entity.TransactionRecord

	warehouses map[string]*entity.Warehouse
	materials  map[string]*entity.MaterialItem
	products   map[string]*entity.ProductItem

	salesOrders      map[string]*entity.SalesOrder
	purchaseRequests map[string]*entity.PurchaseRequest
	purchaseOrders   map[string]*entity.PurchaseOrder
	issueNotes       map[string]*entity.IssueNote
	outsourcing      map[string]*entity.OutsourcingRecord
}

func newState() *state {
	return &state{
		records:          make(map[int64]*entity.InventoryRecord),
		byKey:            make(map[entity.LedgerKey]int64),
		warehouses:       make(map[string]*entity.Warehouse),
		materials:        make(map[string]*entity.MaterialItem),
		products:         make(map[string]*entity.ProductItem),
		salesOrders:      make(map[string]*entity.SalesOrder),
		purchaseRequests: make(map[string]*entity.PurchaseRequest),
		purchaseOrders:   make(map[string]*entity.PurchaseOrder),
		issueNotes:       make(map[string]*entity.IssueNote),
		outsourcing:      make(map[string]*entity.OutsourcingRecord),
	}
}

func (s *state) clone() *state {
	c := newState()
	c.nextRecordID = s.nextRecordID
	for id, r := range s.records {
		rc := *r
		c.records[id] = &rc
	}
	for k, id := range s.byKey {
		c.byKey[k] = id
	}
	// el log sólo crece: basta con copiar el slice de punteros
	c.transactions = append([]*entity.TransactionRecord(nil), s.transactions...)
	for id, w := range s.warehouses {
		wc := *w
		c.warehouses[id] = &wc
	}
	for id, m := range s.materials {
		mc := *m
		c.materials[id] = &mc
	}
	for id, p := range s.products {
		pc := *p
		c.products[id] = &pc
	}
	for id, o := range s.salesOrders {
		c.salesOrders[id] = o.Clone()
	}
	for id, p := range s.purchaseRequests {
		c.purchaseRequests[id] = p.Clone()
	}
	for id, p := range s.purchaseOrders {
		c.purchaseOrders[id] = p.Clone()
	}
	for id, n := range s.issueNotes {
		c.issueNotes[id] = n.Clone()
	}
	for id, o := range s.outsourcing {
		c.outsourcing[id] = o.Clone()
	}
	return c
}

// Store estado en memoria con transacciones serializadas: Run toma el lock, trabaja sobre una
// copia y la publica sólo si fn termina sin error (rollback = descartar la copia).
// fn no debe volver a llamar a Run.
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(reposFor(work)); err != nil {
		return err
	}
	s.state = work
	return nil
}

func reposFor(st *state) inventory.Repositories {
	return inventory.Repositories{
		Ledger:           &ledgerRepo{st: st},
		Transactions:     &transactionRepo{st: st},
		Warehouses:       &warehouseRepo{st: st},
		Items:            &itemRepo{st: st},
		SalesOrders:      &salesOrderRepo{st: st},
		PurchaseRequests: &purchaseRequestRepo{st: st},
		PurchaseOrders:   &purchaseOrderRepo{st: st},
		IssueNotes:       &issueNoteRepo{st: st},
		Outsourcing:      &outsourcingRepo{st: st},
	}
}
