package status

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Machine
// ──────────────────────────────────────────────────────────────────────────────

func TestMachine_Transiciones(t *testing.T) {
	tests := []struct {
		name string
		from entity.SalesOrderStatus
		to   entity.SalesOrderStatus
		ok   bool
	}{
		{"mismo estado", entity.SalesOrderCompleted, entity.SalesOrderCompleted, true},
		{"procesando a parcial", entity.SalesOrderProcessing, entity.SalesOrderPartiallyIssued, true},
		{"preparando a procesando", entity.SalesOrderPreparingMaterial, entity.SalesOrderProcessing, true},
		{"parcial a completada", entity.SalesOrderPartiallyIssued, entity.SalesOrderCompleted, true},
		{"parcial no se cancela", entity.SalesOrderPartiallyIssued, entity.SalesOrderCancelled, false},
		{"completada es terminal", entity.SalesOrderCompleted, entity.SalesOrderProcessing, false},
		{"cancelada es terminal", entity.SalesOrderCancelled, entity.SalesOrderProcessing, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, SalesOrders.Can(tt.from, tt.to))
			err := SalesOrders.Transition(tt.from, tt.to)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			}
		})
	}
}

func TestMachine_Terminales(t *testing.T) {
	assert.True(t, SalesOrders.Terminal(entity.SalesOrderCompleted))
	assert.True(t, SalesOrders.Terminal(entity.SalesOrderCancelled))
	assert.False(t, SalesOrders.Terminal(entity.SalesOrderProcessing))
	assert.True(t, PurchaseRequests.Terminal(entity.PurchaseRequestPurchased))
	assert.True(t, PurchaseOrders.Terminal(entity.PurchaseOrderCompleted))
	assert.False(t, PurchaseOrders.Terminal(entity.PurchaseOrderInProgress))
	assert.True(t, Documents.Terminal(entity.DocumentCanceled))
}

func TestMachine_SolicitudRechazadaNoSeConfirma(t *testing.T) {
	require.ErrorIs(t, PurchaseRequests.Transition(entity.PurchaseRequestRejected, entity.PurchaseRequestConfirmed), domain.ErrInvalidTransition)
	require.NoError(t, PurchaseRequests.Transition(entity.PurchaseRequestConfirmed, entity.PurchaseRequestPurchased))
}

// ──────────────────────────────────────────────────────────────────────────────
// Derivaciones
// ──────────────────────────────────────────────────────────────────────────────

func demand(required, received int64) *entity.DemandLine {
	l := &entity.DemandLine{Required: decimal.NewFromInt(required), Received: decimal.NewFromInt(received)}
	l.Recompute()
	return l
}

func supply(ordered, received int64) *entity.SupplyLine {
	l := &entity.SupplyLine{Ordered: decimal.NewFromInt(ordered), Received: decimal.NewFromInt(received)}
	l.Recompute()
	return l
}

func TestSalesOrderAfterIssue(t *testing.T) {
	o := &entity.SalesOrder{Status: entity.SalesOrderProcessing, ProductLines: []*entity.DemandLine{demand(10, 0)}}
	assert.Equal(t, entity.SalesOrderProcessing, SalesOrderAfterIssue(o))

	o.ProductLines[0] = demand(10, 4)
	assert.Equal(t, entity.SalesOrderPartiallyIssued, SalesOrderAfterIssue(o))

	o.ProductLines[0] = demand(10, 10)
	o.MaterialLines = []*entity.DemandLine{demand(5, 5)}
	assert.Equal(t, entity.SalesOrderCompleted, SalesOrderAfterIssue(o))
}

func TestSupplyAfterReceipt(t *testing.T) {
	assert.Equal(t, entity.PurchaseOrderInProgress, SupplyAfterReceipt([]*entity.SupplyLine{supply(10, 10), supply(5, 0)}))
	assert.Equal(t, entity.PurchaseOrderCompleted, SupplyAfterReceipt([]*entity.SupplyLine{supply(10, 10), supply(5, 7)}))
	assert.Equal(t, entity.DocumentInProgress, DocumentAfterReturn([]*entity.SupplyLine{supply(3, 1)}))
	assert.Equal(t, entity.DocumentCompleted, DocumentAfterReturn([]*entity.SupplyLine{supply(3, 3)}))
}

func TestSalesOrderAfterRequests(t *testing.T) {
	pr := func(s entity.PurchaseRequestStatus) *entity.PurchaseRequest { return &entity.PurchaseRequest{Status: s} }

	tests := []struct {
		name     string
		current  entity.SalesOrderStatus
		requests []*entity.PurchaseRequest
		want     entity.SalesOrderStatus
	}{
		{"sin solicitudes no cambia", entity.SalesOrderPreparingMaterial, nil, entity.SalesOrderPreparingMaterial},
		{"todas canceladas vuelve a procesando", entity.SalesOrderPreparingMaterial,
			[]*entity.PurchaseRequest{pr(entity.PurchaseRequestCancelled), pr(entity.PurchaseRequestCancelled)}, entity.SalesOrderProcessing},
		{"confirmada pasa a preparando", entity.SalesOrderProcessing,
			[]*entity.PurchaseRequest{pr(entity.PurchaseRequestPending), pr(entity.PurchaseRequestConfirmed)}, entity.SalesOrderPreparingMaterial},
		{"comprada pasa a preparando", entity.SalesOrderProcessing,
			[]*entity.PurchaseRequest{pr(entity.PurchaseRequestPurchased)}, entity.SalesOrderPreparingMaterial},
		{"sólo pendientes no cambia", entity.SalesOrderProcessing,
			[]*entity.PurchaseRequest{pr(entity.PurchaseRequestPending)}, entity.SalesOrderProcessing},
		{"fuera de procesando no aplica", entity.SalesOrderPartiallyIssued,
			[]*entity.PurchaseRequest{pr(entity.PurchaseRequestCancelled)}, entity.SalesOrderPartiallyIssued},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SalesOrderAfterRequests(tt.current, tt.requests))
		})
	}
}

func TestDisplayLabel(t *testing.T) {
	pr := func(s entity.PurchaseRequestStatus) *entity.PurchaseRequest { return &entity.PurchaseRequest{Status: s} }
	processing := &entity.SalesOrder{Status: entity.SalesOrderProcessing}

	assert.Equal(t, string(entity.LabelNoRequest), DisplayLabel(processing, nil))
	assert.Equal(t, string(entity.LabelNoRequest), DisplayLabel(processing, []*entity.PurchaseRequest{pr(entity.PurchaseRequestCancelled)}))
	assert.Equal(t, string(entity.LabelRequestPending), DisplayLabel(processing,
		[]*entity.PurchaseRequest{pr(entity.PurchaseRequestRejected), pr(entity.PurchaseRequestPending)}))
	assert.Equal(t, string(entity.LabelRequestRejected), DisplayLabel(processing,
		[]*entity.PurchaseRequest{pr(entity.PurchaseRequestRejected), pr(entity.PurchaseRequestCancelled)}))
	assert.Equal(t, string(entity.SalesOrderCompleted),
		DisplayLabel(&entity.SalesOrder{Status: entity.SalesOrderCompleted}, []*entity.PurchaseRequest{pr(entity.PurchaseRequestPending)}))
}
